package badger

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/ternarybob/quotedoc/internal/models"
)

// SeedFile is the structure of a seed file
// Format:
//
//	{
//	  "companies":  [{"id": 1, "name": "Acme Ltd", ...}],
//	  "quotations": [{"id": 7, "company_id": 1, "quotation_number": "QT-1", ...}]
//	}
type SeedFile struct {
	Companies  []models.Company   `json:"companies"`
	Quotations []models.Quotation `json:"quotations"`
}

// LoadSeedFiles loads companies and quotations from every *.json file in dirPath.
// A missing directory is not an error; unreadable files are logged and skipped.
func (m *Manager) LoadSeedFiles(ctx context.Context, dirPath string) error {
	if dirPath == "" {
		m.logger.Debug().Msg("No seed directory configured, skipping seed load")
		return nil
	}

	m.logger.Debug().Str("dir", dirPath).Msg("Loading seed files")

	entries, err := os.ReadDir(dirPath)
	if err != nil {
		if os.IsNotExist(err) {
			m.logger.Debug().Str("dir", dirPath).Msg("Seed directory not found, skipping")
			return nil
		}
		m.logger.Warn().Err(err).Str("dir", dirPath).Msg("Failed to read seed directory")
		return nil
	}

	var files []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.EqualFold(filepath.Ext(entry.Name()), ".json") {
			continue
		}
		files = append(files, filepath.Join(dirPath, entry.Name()))
	}
	sort.Strings(files)

	loadedCount := 0
	skippedCount := 0
	errorCount := 0
	for _, file := range files {
		loaded, skipped, errors := m.loadSeedFile(ctx, file)
		loadedCount += loaded
		skippedCount += skipped
		errorCount += errors
	}

	m.logger.Info().
		Int("files", len(files)).
		Int("loaded", loadedCount).
		Int("skipped", skippedCount).
		Int("errors", errorCount).
		Msg("Finished loading seed files")

	return nil
}

// loadSeedFile loads one seed file
func (m *Manager) loadSeedFile(ctx context.Context, filePath string) (loaded, skipped, errors int) {
	m.logger.Debug().Str("file", filePath).Msg("Loading seed file")

	content, err := os.ReadFile(filePath)
	if err != nil {
		m.logger.Warn().Err(err).Str("file", filePath).Msg("Failed to read seed file")
		return 0, 0, 1
	}

	var seed SeedFile
	if err := json.Unmarshal(content, &seed); err != nil {
		m.logger.Warn().Err(err).Str("file", filePath).Msg("Failed to parse seed file")
		return 0, 0, 1
	}

	fileName := filepath.Base(filePath)
	storage := m.quotations

	for i := range seed.Companies {
		company := &seed.Companies[i]
		if company.ID.IsEmpty() {
			m.logger.Warn().Str("file", fileName).Int("index", i).Msg("Skipping company without id")
			skipped++
			continue
		}
		if err := storage.SaveCompany(ctx, company); err != nil {
			m.logger.Error().Err(err).Str("company_id", company.ID.String()).Msg("Failed to store company")
			errors++
			continue
		}
		loaded++
	}

	for i := range seed.Quotations {
		quotation := &seed.Quotations[i]
		if quotation.ID.IsEmpty() {
			m.logger.Warn().Str("file", fileName).Int("index", i).Msg("Skipping quotation without id")
			skipped++
			continue
		}
		if err := storage.SaveQuotation(ctx, quotation); err != nil {
			m.logger.Error().Err(err).Str("quotation_id", quotation.ID.String()).Msg("Failed to store quotation")
			errors++
			continue
		}
		loaded++
	}

	m.logger.Debug().
		Str("file", fileName).
		Int("companies", len(seed.Companies)).
		Int("quotations", len(seed.Quotations)).
		Msg("Seed file loaded")

	return loaded, skipped, errors
}
