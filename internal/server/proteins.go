package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"cuticulome/internal/export"
	"cuticulome/internal/filter"
	"cuticulome/internal/metrics"
	"cuticulome/internal/parsing"
	"cuticulome/internal/store"
)

// proteinRow is the browse-table projection of a record.
type proteinRow struct {
	Name          string `json:"name"`
	Species       string `json:"species"`
	ProteinFamily string `json:"protein_family"`
	Function      string `json:"function"`
	Reference     string `json:"reference"`
	DOI           string `json:"doi"`
	DOIURL        string `json:"doi_url,omitempty"`
}

func toRow(r store.ProteinRecord) proteinRow {
	return proteinRow{
		Name:          r.Name,
		Species:       r.Species,
		ProteinFamily: r.ProteinFamily,
		Function:      r.Function,
		Reference:     r.Reference,
		DOI:           r.DOI,
		DOIURL:        parsing.DOIURL(r.DOI),
	}
}

// currentFilter reads the filter from the query string and repairs it
// against the snapshot.
func (s *Server) currentFilter(c *gin.Context) (filter.State, []store.ProteinRecord) {
	records := s.snapshot.Records()
	state := filter.FromQuery(c.Request.URL.Query()).Normalize(records)
	return state, filter.Apply(records, state)
}

func (s *Server) listProteins(c *gin.Context) {
	state, subset := s.currentFilter(c)

	rows := make([]proteinRow, len(subset))
	for i, r := range subset {
		rows[i] = toRow(r)
	}
	s.metrics.FilterQueries.Inc()
	s.metrics.FilterResults.Observe(float64(len(rows)))

	c.JSON(http.StatusOK, gin.H{
		"filter":  state,
		"options": filter.OptionSet(s.snapshot.Records(), state),
		"columns": store.DisplayHeaders,
		"count":   len(rows),
		"records": rows,
	})
}

func (s *Server) exportArchive(c *gin.Context) {
	state, subset := s.currentFilter(c)
	key := state.Key()

	if s.exports != nil {
		if cached, found := s.exports.Get(key); found {
			s.metrics.Exports.WithLabelValues(metrics.OutcomeCached).Inc()
			sendArchive(c, cached.([]byte))
			return
		}
	}

	archive, err := s.packager.Build(c.Request.Context(), subset)
	if err != nil {
		if errors.Is(err, export.ErrEmptySelection) {
			s.metrics.Exports.WithLabelValues(metrics.OutcomeEmpty).Inc()
			c.JSON(http.StatusNotFound, gin.H{"warning": "No entries selected."})
			return
		}
		s.metrics.Exports.WithLabelValues(metrics.OutcomeError).Inc()
		s.logger.Error("export failed", zap.String("filter", key), zap.Error(err))
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "The export could not be created. Please try again later."})
		return
	}

	s.metrics.Exports.WithLabelValues(metrics.OutcomeBuilt).Inc()
	s.metrics.ExportBytes.Observe(float64(len(archive)))
	if s.exports != nil {
		s.exports.SetDefault(key, archive)
	}
	sendArchive(c, archive)
}

func sendArchive(c *gin.Context, archive []byte) {
	c.Header("Content-Disposition", `attachment; filename="`+export.ArchiveName+`"`)
	c.Data(http.StatusOK, "application/zip", archive)
}
