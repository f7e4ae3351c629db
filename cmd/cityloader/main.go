package main

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/selenevara/astroatlas/internal/adapters/postgres"
	"github.com/selenevara/astroatlas/internal/core/domain"
	"github.com/selenevara/astroatlas/internal/core/usecases"
	"github.com/selenevara/astroatlas/internal/pkg/config"
)

// defaultSource is the GeoNames dump of every city above 15k population.
const defaultSource = "https://download.geonames.org/export/dump/cities15000.zip"

func main() {
	cfg, err := config.Load("astroatlas-cityloader")
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	ctx := context.Background()

	db, err := postgres.New(ctx, cfg.Database.DSN())
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	defer db.Close()

	citySvc := usecases.NewCityService(postgres.NewCityRepo(db), nil)

	// Sources are GeoNames dump URLs or local files (zip or tab-separated txt).
	sources := os.Args[1:]
	if len(sources) == 0 {
		sources = []string{defaultSource}
	}

	log.Printf("AstroAtlas city loader — %d source(s)", len(sources))

	client := &http.Client{Timeout: 120 * time.Second}

	var wg sync.WaitGroup
	sem := make(chan struct{}, 2) // max 2 concurrent downloads

	for _, src := range sources {
		wg.Add(1)
		go func(src string) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			if err := importSource(ctx, citySvc, client, src); err != nil {
				log.Printf("ERROR [%s]: %v", src, err)
			}
		}(src)
	}

	wg.Wait()
	log.Println("city import complete")
}

func importSource(ctx context.Context, svc *usecases.CityService, client *http.Client, src string) error {
	log.Printf("[%s] loading", src)

	body, err := fetch(client, src)
	if err != nil {
		return err
	}

	var cities []domain.City
	if strings.HasSuffix(strings.ToLower(src), ".zip") {
		zr, err := zip.NewReader(bytes.NewReader(body), int64(len(body)))
		if err != nil {
			return fmt.Errorf("open zip: %w", err)
		}
		for _, f := range zr.File {
			if !strings.HasSuffix(strings.ToLower(f.Name), ".txt") || strings.EqualFold(f.Name, "readme.txt") {
				continue
			}
			rc, err := f.Open()
			if err != nil {
				return fmt.Errorf("open %s: %w", f.Name, err)
			}
			parsed, err := parseCities(rc)
			rc.Close()
			if err != nil {
				return fmt.Errorf("parse %s: %w", f.Name, err)
			}
			cities = append(cities, parsed...)
		}
	} else {
		parsed, err := parseCities(bytes.NewReader(body))
		if err != nil {
			return err
		}
		cities = parsed
	}

	if len(cities) == 0 {
		return fmt.Errorf("no populated places found")
	}

	imported, err := svc.ImportBatch(ctx, cities)
	if err != nil {
		return fmt.Errorf("import after %d rows: %w", imported, err)
	}

	log.Printf("[%s] imported %d cities", src, imported)
	return nil
}

func fetch(client *http.Client, src string) ([]byte, error) {
	if !strings.HasPrefix(src, "http://") && !strings.HasPrefix(src, "https://") {
		data, err := os.ReadFile(src)
		if err != nil {
			return nil, fmt.Errorf("read file: %w", err)
		}
		return data, nil
	}

	resp, err := client.Get(src)
	if err != nil {
		return nil, fmt.Errorf("download: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP %d for %s", resp.StatusCode, src)
	}
	return io.ReadAll(resp.Body)
}

// parseCities reads the GeoNames tab-separated dump format:
// geonameid, name, asciiname, alternatenames, latitude, longitude,
// feature class, feature code, country code, ..., population (column 14).
// Only populated places (feature class P) with a population are kept.
func parseCities(r io.Reader) ([]domain.City, error) {
	reader := csv.NewReader(r)
	reader.Comma = '\t'
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1

	var cities []domain.City
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			continue
		}
		if len(record) < 15 {
			continue
		}

		featureClass := record[6]
		if featureClass != "P" {
			continue
		}

		lat, _ := strconv.ParseFloat(record[4], 64)
		lon, _ := strconv.ParseFloat(record[5], 64)
		population, _ := strconv.ParseInt(record[14], 10, 64)

		if lat == 0 && lon == 0 {
			continue
		}
		if population <= 0 {
			continue
		}

		cities = append(cities, domain.City{
			ID:         record[0],
			Name:       strings.TrimSpace(record[1]),
			Country:    strings.TrimSpace(record[8]),
			Location:   domain.GeoPoint{Lat: lat, Lon: lon},
			Population: population,
		})
	}
	return cities, nil
}
