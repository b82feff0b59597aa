package lunar

import (
	"strings"
	"sync"

	"github.com/longbridgeapp/opencc"
	"github.com/rs/zerolog/log"
)

// 宜忌、節氣與農曆月日的固定譯法，套用於 OpenCC 轉換之後；OpenCC 無法載入時單獨使用。
var phrasePairs = []string{
	"余事勿取", "餘事勿取",
	"诸事不宜", "諸事不宜",
	"会亲友", "會親友",
	"进人口", "進人口",
	"教牛马", "教牛馬",
	"开市", "開市",
	"纳财", "納財",
	"求财", "求財",
	"开光", "開光",
	"塑绘", "塑繪",
	"斋醮", "齋醮",
	"剃头", "剃頭",
	"纳采", "納采",
	"问名", "問名",
	"纳吉", "納吉",
	"纳征", "納徵",
	"请期", "請期",
	"亲迎", "親迎",
	"合帐", "合帳",
	"动土", "動土",
	"竖柱", "豎柱",
	"开池", "開池",
	"补垣", "補垣",
	"坏垣", "壞垣",
	"栽种", "栽種",
	"牧养", "牧養",
	"纳畜", "納畜",
	"渔猎", "漁獵",
	"启攒", "啟攢",
	"启钻", "啟鑽",
	"谢土", "謝土",
	"订盟", "訂盟",
	"安门", "安門",
	"行丧", "行喪",
	"入殓", "入殮",
	"经络", "經絡",
	"修饰垣墙", "修飾垣牆",
	"平治道涂", "平治道塗",
	"开仓", "開倉",
	"出货财", "出貨財",
	"破财", "破財",
	"灾煞", "災煞",
	"惊蛰", "驚蟄",
	"谷雨", "穀雨",
	"小满", "小滿",
	"芒种", "芒種",
	"处暑", "處暑",
	"腊月", "臘月",
	"闰", "閏",
	"为", "為",
	"让", "讓",
	"从", "從",
	"来", "來",
	"这", "這",
	"会", "會",
	"与", "與",
	"对", "對",
	"腊", "臘",
	"节", "節",
	"龙", "龍",
	"马", "馬",
	"鸡", "雞",
	"猪", "豬",
	"门", "門",
	"财", "財",
	"开", "開",
	"纳", "納",
	"动", "動",
	"盖", "蓋",
	"馀", "餘",
}

var phraseTable = strings.NewReplacer(phrasePairs...)

var (
	converterOnce sync.Once
	converter     *opencc.OpenCC
)

func s2twp() *opencc.OpenCC {
	converterOnce.Do(func() {
		cc, err := opencc.New("s2twp")
		if err != nil {
			log.Warn().Err(err).Msg("opencc unavailable, using phrase table only")
			return
		}
		converter = cc
	})
	return converter
}

// ToTraditional 以 OpenCC s2twp 將 lunar-go 的簡體輸出轉為臺灣正體，再套用農民曆詞彙表。
func ToTraditional(s string) string {
	if s == "" {
		return s
	}
	if cc := s2twp(); cc != nil {
		if out, err := cc.Convert(s); err == nil {
			s = out
		} else {
			log.Warn().Err(err).Str("text", s).Msg("opencc convert failed")
		}
	}
	return phraseTable.Replace(s)
}
