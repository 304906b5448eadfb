package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/xuri/excelize/v2"

	"github.com/coursekit/platform-service/internal/repositories"
)

type exportService struct {
	repo   repositories.Repository
	logger *slog.Logger
}

func NewExportService(repo repositories.Repository, logger *slog.Logger) ExportService {
	return &exportService{
		repo:   repo,
		logger: logger,
	}
}

var userExportHeaders = []string{"ID", "Email", "Username", "First Name", "Last Name", "Role", "Status", "Created At"}

// ExportUsers renders the filtered user list as an xlsx workbook. Pagination
// limits are lifted so the export covers the whole filtered set.
func (s *exportService) ExportUsers(ctx context.Context, filters repositories.UserFilters) ([]byte, error) {
	filters.Limit = 100
	filters.Offset = 0

	f := excelize.NewFile()
	defer func() {
		if err := f.Close(); err != nil {
			s.logger.Error("Failed to close workbook", "error", err)
		}
	}()

	const sheet = "Users"
	f.SetSheetName("Sheet1", sheet)

	for col, header := range userExportHeaders {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return nil, fmt.Errorf("failed to build header cell: %w", err)
		}
		if err := f.SetCellValue(sheet, cell, header); err != nil {
			return nil, fmt.Errorf("failed to write header: %w", err)
		}
	}

	row := 2
	for {
		users, _, err := s.repo.User().List(ctx, filters)
		if err != nil {
			return nil, fmt.Errorf("failed to list users: %w", err)
		}

		for _, user := range users {
			values := []interface{}{
				user.ID,
				user.Email,
				user.Username,
				user.FirstName,
				user.LastName,
				string(user.Role),
				string(user.Status),
				user.CreatedAt.Format("2006-01-02 15:04:05"),
			}
			for col, value := range values {
				cell, err := excelize.CoordinatesToCellName(col+1, row)
				if err != nil {
					return nil, fmt.Errorf("failed to build cell: %w", err)
				}
				if err := f.SetCellValue(sheet, cell, value); err != nil {
					return nil, fmt.Errorf("failed to write cell: %w", err)
				}
			}
			row++
		}

		if len(users) < filters.Limit {
			break
		}
		filters.Offset += filters.Limit
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to render workbook: %w", err)
	}

	s.logger.Info("User export generated", "rows", row-2)

	return buf.Bytes(), nil
}
