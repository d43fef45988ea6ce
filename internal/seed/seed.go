// Package seed loads catalog items from YAML seed files. Seed items carry
// metadata only; binaries exist solely for same-session uploads.
package seed

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/nexuscore/vaultd/internal/catalog"
)

// File is the top-level layout of a seed file.
type File struct {
	Items []Entry `yaml:"items"`
}

// Entry is one seeded catalog item.
type Entry struct {
	ID          string `yaml:"id"`
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	SizeLabel   string `yaml:"size"`
	Category    string `yaml:"category"`
	UpdatedAt   string `yaml:"updated_at"`
	Password    string `yaml:"password"`
	Links       []struct {
		Platform  string `yaml:"platform"`
		URL       string `yaml:"url"`
		Extension string `yaml:"extension"`
	} `yaml:"links"`
}

// Read parses one seed file into catalog items.
func Read(path string) ([]catalog.Item, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading seed file %s: %w", path, err)
	}

	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing seed file %s: %w", path, err)
	}

	items := make([]catalog.Item, 0, len(f.Items))
	now := time.Now()
	for i, e := range f.Items {
		if e.Name == "" {
			return nil, fmt.Errorf("seed file %s: item %d has no name", path, i)
		}
		item := catalog.Item{
			ID:             e.ID,
			Name:           e.Name,
			Description:    e.Description,
			SizeLabel:      e.SizeLabel,
			Category:       e.Category,
			UpdatedAt:      e.UpdatedAt,
			AccessPassword: e.Password,
			UserSubmitted:  true,
			Source:         catalog.SourceVault,
			SecurityReport: catalog.NewSafeReport(),
		}
		if item.ID == "" {
			// Generated ids are millisecond-derived; offset by the entry
			// index so id-less entries in one file never collide.
			item.ID = catalog.NewUploadID(now.Add(time.Duration(i) * time.Millisecond))
		}
		if item.Category == "" {
			item.Category = "Desenvolvimento"
		}
		if item.UpdatedAt == "" {
			item.UpdatedAt = time.Now().Format("02/01/2006")
		}
		for _, l := range e.Links {
			item.Links = append(item.Links, catalog.PlatformLink{
				Platform:  catalog.Platform(l.Platform),
				URL:       l.URL,
				Extension: catalog.FileExtension(l.Extension),
			})
		}
		items = append(items, item)
	}
	return items, nil
}
