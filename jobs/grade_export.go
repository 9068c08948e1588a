package jobs

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"

	"github.com/hibiken/asynq"

	"github.com/sekolah-adp/sekolah-adp/internal/grades"
)

// GradeExportStore is the slice of the grades repository the exporter needs.
type GradeExportStore interface {
	ListByClass(ctx context.Context, classID, subjectID, termID string) ([]grades.Grade, error)
	FinishExport(ctx context.Context, id, status, filePath string) error
}

// GradeExporter materializes grade exports as CSV files on disk.
type GradeExporter struct {
	Store  GradeExportStore
	Dir    string
	Logger *slog.Logger
}

// Handle processes TaskTypeGradeExport tasks.
func (e *GradeExporter) Handle(ctx context.Context, t *asynq.Task) error {
	var payload GradeExportPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}
	path, err := e.writeFile(ctx, payload)
	if err != nil {
		if ferr := e.Store.FinishExport(ctx, payload.ExportID, grades.ExportStatusFailed, ""); ferr != nil && e.Logger != nil {
			e.Logger.Error("mark export failed", slog.String("export_id", payload.ExportID), slog.Any("error", ferr))
		}
		return err
	}
	if err := e.Store.FinishExport(ctx, payload.ExportID, grades.ExportStatusDone, path); err != nil {
		return err
	}
	if e.Logger != nil {
		e.Logger.Info("grade export done", slog.String("export_id", payload.ExportID), slog.String("file", path))
	}
	return nil
}

func (e *GradeExporter) writeFile(ctx context.Context, payload GradeExportPayload) (string, error) {
	rows, err := e.Store.ListByClass(ctx, payload.ClassID, payload.SubjectID, payload.TermID)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(e.Dir, 0o755); err != nil {
		return "", err
	}
	path := filepath.Join(e.Dir, fmt.Sprintf("grades-%s.csv", payload.ExportID))
	f, err := os.Create(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"student_id", "class_id", "subject_id", "term_id", "score", "recorded_by"}); err != nil {
		return "", err
	}
	for _, g := range rows {
		record := []string{
			g.StudentID,
			g.ClassID,
			g.SubjectID,
			g.TermID,
			strconv.FormatFloat(g.Score, 'f', 2, 64),
			g.RecordedBy,
		}
		if err := w.Write(record); err != nil {
			return "", err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", err
	}
	return path, nil
}
