package dataset_test

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"worldtour/internal/dataset"
	"worldtour/internal/world"
)

const sampleCSV = `id,city,lat,lng,iso3,population
1826645935,London,51.5072,-0.1275,GBR,10979000
1250015082,Paris,48.8566,2.3522,FRA,11060000
1840034016,New York,40.6943,-73.9249,USA,18972871
1036074917,Nowhere,-12.5,130.8,AUS,
`

func TestLoadCSV(t *testing.T) {
	cities, err := dataset.LoadCSV(strings.NewReader(sampleCSV))
	require.NoError(t, err)
	require.Len(t, cities, 4)

	assert.Equal(t, world.City{ID: 1826645935, Name: "London", Lat: 51.5072, Lng: -0.1275, ISO3: "GBR", Population: 10979000}, cities[0])
	assert.Equal(t, "New York", cities[2].Name)
	assert.Zero(t, cities[3].Population)
}

func TestLoadCSV_ColumnOrderAndAliases(t *testing.T) {
	in := "Population,Longitude,Latitude,Name,ID,country_code\n5,10,20,X,7,ITA\n\n"
	cities, err := dataset.LoadCSV(strings.NewReader(in))
	require.NoError(t, err)
	require.Len(t, cities, 1)
	assert.Equal(t, world.City{ID: 7, Name: "X", Lat: 20, Lng: 10, ISO3: "ITA", Population: 5}, cities[0])
}

func TestLoadCSV_IntegrityErrors(t *testing.T) {
	cases := map[string]string{
		"lng":        "id,city,lat\n1,A,2\n",
		"id":         "id,city,lat,lng\nabc,A,2,3\n",
		"lat":        "id,city,lat,lng\n1,A,95,3\n",
		"name":       "id,city,lat,lng\n1,,2,3\n",
		"population": "id,city,lat,lng,population\n1,A,2,3,lots\n",
	}
	for field, in := range cases {
		_, err := dataset.LoadCSV(strings.NewReader(in))
		var die *world.DataIntegrityError
		require.True(t, errors.As(err, &die), "%s: %v", field, err)
		assert.Equal(t, field, die.Field)
	}

	nonFinite := []struct{ field, in string }{
		{"lat", "id,city,lat,lng\n1,A,NaN,3\n"},
		{"lng", "id,city,lat,lng\n1,A,2,nan\n"},
		{"lng", "id,city,lat,lng\n1,A,2,+Inf\n"},
		{"population", "id,city,lat,lng,population\n1,A,2,3,NaN\n"},
	}
	for _, tc := range nonFinite {
		_, err := dataset.LoadCSV(strings.NewReader(tc.in))
		var die *world.DataIntegrityError
		require.True(t, errors.As(err, &die), "%s: %v", tc.in, err)
		assert.Equal(t, tc.field, die.Field)
		assert.Equal(t, 1, die.Row)
	}

	_, err := dataset.LoadCSV(strings.NewReader(""))
	require.Error(t, err)
}

// A NaN coordinate would sort as equal to every distance and outrank the
// nearest city, so the row must never reach a catalog.
func TestParseRecords_RejectsNaNCoordinate(t *testing.T) {
	cities, err := dataset.ParseRecords(
		[]string{"id", "city", "lat", "lng"},
		[][]string{
			{"1", "Origin", "0", "0"},
			{"2", "Broken", "NaN", "50"},
			{"3", "Near", "0", "1"},
		},
	)
	require.Error(t, err)
	assert.Nil(t, cities)
	var die *world.DataIntegrityError
	require.ErrorAs(t, err, &die)
	assert.Equal(t, 2, die.Row)
	assert.Equal(t, "lat", die.Field)
}

func TestParseRecords_FloatIDs(t *testing.T) {
	cities, err := dataset.ParseRecords(
		[]string{"id", "city", "lat", "lng"},
		[][]string{{"1826645935.0", "London", "51.5", "-0.12"}},
	)
	require.NoError(t, err)
	assert.EqualValues(t, 1826645935, cities[0].ID)

	_, err = dataset.ParseRecords([]string{"id", "city", "lat", "lng"}, [][]string{{"1.5", "x", "0", "0"}})
	require.Error(t, err)
}

func TestLoadFile_XLSXAndCSV(t *testing.T) {
	dir := t.TempDir()

	csvPath := filepath.Join(dir, "cities.csv")
	require.NoError(t, os.WriteFile(csvPath, []byte(sampleCSV), 0o644))
	fromCSV, err := dataset.LoadFile(csvPath)
	require.NoError(t, err)

	xlsxPath := filepath.Join(dir, "worldcities.xlsx")
	f := excelize.NewFile()
	for i, line := range strings.Split(strings.TrimSpace(sampleCSV), "\n") {
		cells := strings.Split(line, ",")
		row := make([]interface{}, len(cells))
		for j, c := range cells {
			row[j] = c
		}
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow("Sheet1", cell, &row))
	}
	require.NoError(t, f.SaveAs(xlsxPath))
	require.NoError(t, f.Close())

	fromXLSX, err := dataset.LoadFile(xlsxPath)
	require.NoError(t, err)
	assert.Equal(t, fromCSV, fromXLSX)

	_, err = dataset.LoadFile(filepath.Join(dir, "cities.json"))
	require.Error(t, err)
}

func TestNormalizeAndPrepare(t *testing.T) {
	raw, err := dataset.LoadCSV(strings.NewReader(sampleCSV))
	require.NoError(t, err)

	norm := dataset.Normalize(raw, -0.1275)
	assert.InDelta(t, 0, norm[0].Lng, 1e-12)
	assert.InDelta(t, 2.4797, norm[1].Lng, 1e-9)
	assert.InDelta(t, 286.2026, norm[2].Lng, 1e-9)
	// input untouched
	assert.InDelta(t, -73.9249, raw[2].Lng, 1e-12)

	cat, origin := dataset.Prepare(raw, raw[0])
	assert.Equal(t, 4, cat.Len())
	assert.InDelta(t, 0, origin.Lng, 1e-12)
	for _, c := range cat.Cities() {
		assert.GreaterOrEqual(t, c.Lng, 0.0)
		assert.Less(t, c.Lng, 360.0)
	}
}

func TestResolveOrigin(t *testing.T) {
	raw, err := dataset.LoadCSV(strings.NewReader(sampleCSV))
	require.NoError(t, err)

	fallback := world.City{ID: 42, Name: "Fallback"}
	assert.Equal(t, "Paris", dataset.ResolveOrigin(raw, 1250015082, fallback).Name)
	assert.Equal(t, fallback, dataset.ResolveOrigin(raw, 42, fallback))

	_, err = dataset.FindCity(raw, 42)
	assert.ErrorIs(t, err, dataset.ErrOriginNotFound)
}
