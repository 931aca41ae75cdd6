// Package main loads the ingredient and tag catalogs from CSV files.
//
// Usage:
//
//	go run ./cmd/seed -ingredients data/ingredients.csv
//	go run ./cmd/seed -tags data/tags.csv
//
// Ingredient rows are "name,measurement_unit", tag rows are
// "name,color,slug"; the first row of each file is a header.
package main

import (
	"encoding/csv"
	"flag"
	"io"
	"log/slog"
	"os"

	"github.com/joho/godotenv"

	"recipebox/config"
	"recipebox/models"
	"recipebox/repositories"
)

var (
	ingredientsPath = flag.String("ingredients", "", "CSV file with ingredient rows")
	tagsPath        = flag.String("tags", "", "CSV file with tag rows")
)

func main() {
	flag.Parse()

	if *ingredientsPath == "" && *tagsPath == "" {
		slog.Error("nothing to do: pass -ingredients and/or -tags")
		os.Exit(1)
	}

	if err := godotenv.Load(); err != nil {
		slog.Info("no .env file found")
	}

	db := config.InitDB()

	if *ingredientsPath != "" {
		n, err := seedIngredients(repositories.NewIngredientRepository(db), *ingredientsPath)
		if err != nil {
			slog.Error("ingredient seeding failed", "error", err)
			os.Exit(1)
		}
		slog.Info("ingredients loaded", "count", n)
	}

	if *tagsPath != "" {
		n, err := seedTags(repositories.NewTagRepository(db), *tagsPath)
		if err != nil {
			slog.Error("tag seeding failed", "error", err)
			os.Exit(1)
		}
		slog.Info("tags loaded", "count", n)
	}
}

func seedIngredients(repo repositories.IngredientRepository, path string) (int, error) {
	rows, err := readCSV(path, 2)
	if err != nil {
		return 0, err
	}

	count := 0
	for _, row := range rows {
		ingredient := &models.Ingredient{Name: row[0], MeasurementUnit: row[1]}
		if err := repo.Create(ingredient); err != nil {
			return count, err
		}
		count++
	}
	return count, nil
}

func seedTags(repo repositories.TagRepository, path string) (int, error) {
	rows, err := readCSV(path, 3)
	if err != nil {
		return 0, err
	}

	count := 0
	for _, row := range rows {
		if err := models.ValidateHexColor(row[1]); err != nil {
			return count, err
		}
		tag := &models.Tag{Name: row[0], Color: row[1], Slug: row[2]}
		if err := repo.Create(tag); err != nil {
			return count, err
		}
		count++
	}
	return count, nil
}

func readCSV(path string, fields int) ([][]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = fields

	// skip header
	if _, err := reader.Read(); err != nil && err != io.EOF {
		return nil, err
	}

	var rows [][]string
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		rows = append(rows, row)
	}
	return rows, nil
}
