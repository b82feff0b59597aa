package httpapi

import (
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	appingest "etf-fortune/internal/application/dataingestion"

	"github.com/gin-gonic/gin"
)

const defaultIngestDays = 7

func (s *Server) handleIngestionDaily(c *gin.Context) {
	var body struct {
		Symbol         string `json:"symbol"`
		StartDate      string `json:"start_date"`
		EndDate        string `json:"end_date"`
		ForceSynthetic bool   `json:"force_synthetic"`
	}
	if err := c.ShouldBindJSON(&body); err != nil && !errors.Is(err, io.EOF) {
		writeError(c, http.StatusBadRequest, errCodeBadRequest, "invalid body")
		return
	}

	end, err := parseDate(body.EndDate)
	if err != nil {
		writeError(c, http.StatusBadRequest, errCodeBadRequest, "invalid end_date")
		return
	}
	start := end.AddDate(0, 0, -defaultIngestDays)
	if body.StartDate != "" {
		if start, err = parseDate(body.StartDate); err != nil {
			writeError(c, http.StatusBadRequest, errCodeBadRequest, "invalid start_date")
			return
		}
	}
	symbol := strings.TrimSpace(body.Symbol)
	if symbol == "" {
		symbol = s.defaultSymbol
	}

	triggeredBy := currentUserID(c)
	started := time.Now()
	res, err := s.deps.Ingest.Execute(c.Request.Context(), appingest.IngestInput{
		Symbol:         symbol,
		Start:          start,
		End:            end,
		ForceSynthetic: body.ForceSynthetic,
	})
	if err != nil {
		s.writeAppError(c, err)
		return
	}

	s.log.Info().
		Str("triggered_by", triggeredBy).
		Str("symbol", symbol).
		Str("data_source", string(res.DataSource)).
		Dur("elapsed", time.Since(started)).
		Msg("manual ingestion finished")

	c.JSON(http.StatusOK, gin.H{
		"success":      true,
		"symbol":       symbol,
		"start_date":   start.Format(dateLayout),
		"end_date":     end.Format(dateLayout),
		"triggered_by": triggeredBy,
		"result":       res,
	})
}
