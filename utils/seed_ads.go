package utils

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/princinho/callboard/database"
	"github.com/princinho/callboard/models"
)

// SeedAds upserts the ad banners listed in the JSON file at path. An empty
// path is a no-op.
func SeedAds(ctx context.Context, ads database.AdStore, path string) error {
	if strings.TrimSpace(path) == "" {
		return nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read ads seed file: %w", err)
	}

	var items []models.Ad
	if err := json.Unmarshal(raw, &items); err != nil {
		return fmt.Errorf("parse ads seed file: %w", err)
	}

	for _, ad := range items {
		if ad.ImageURL == "" {
			return fmt.Errorf("ads seed entry %q has no imageUrl", ad.Title)
		}
		if err := ads.Upsert(ctx, ad); err != nil {
			return fmt.Errorf("seed ad upsert failed: %w", err)
		}
	}
	log.Printf("Seeded %d ads from %s", len(items), path)
	return nil
}
