package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"time"

	_ "github.com/joho/godotenv/autoload"
	"github.com/xuri/excelize/v2"
)

const (
	defaultAPIBase = "http://localhost:8080"
)

var (
	apiBase    string
	token      string
	client     = &http.Client{Timeout: 30 * time.Second}
	workbook   []byte
	createdIDs = make(map[string]string) // track created resources for cleanup
)

func main() {
	fmt.Println("=== Diet Hub E2E Smoke Test ===")
	fmt.Println()

	// Load config from env
	apiBase = getEnv("API_BASE_URL", defaultAPIBase)
	token = getEnv("SMOKE_TOKEN", "")

	fmt.Printf("API Base: %s\n", apiBase)
	fmt.Printf("Token: %s\n", maskString(token))
	fmt.Println()

	data, err := buildWorkbook(time.Now())
	if err != nil {
		fmt.Printf("failed to build workbook: %v\n", err)
		os.Exit(1)
	}
	workbook = data

	// Run smoke tests
	steps := []struct {
		name string
		fn   func() error
	}{
		{"Healthz", testHealthz},
		{"Dev Token", testDevToken},
		{"Validate (JSON)", testValidateJSON},
		{"Validate (PDF)", testValidatePDF},
		{"Import Diet", testImportDiet},
		{"List Diets", testListDiets},
		{"Get Shopping List", testGetShoppingList},
		{"Download Diet File", testDownloadFile},
		{"Delete Diet", testDeleteDiet},
	}

	failed := false
	for i, step := range steps {
		fmt.Printf("[%d/%d] %s... ", i+1, len(steps), step.name)
		if err := step.fn(); err != nil {
			fmt.Printf("❌ FAILED\n")
			fmt.Printf("  Error: %v\n\n", err)
			failed = true
			break
		}
		fmt.Printf("✅ OK\n")
	}

	fmt.Println()
	if failed {
		fmt.Println("❌ SMOKE TEST FAILED")
		os.Exit(1)
	}

	fmt.Println("✅ ALL SMOKE TESTS PASSED")
}

// buildWorkbook creates a two-day diet starting at day.
func buildWorkbook(day time.Time) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	d1 := day.Format("02.01.2006")
	d2 := day.AddDate(0, 0, 1).Format("02.01.2006")
	rows := [][]interface{}{
		{"Data i godzina", "Nazwa posiłku", "Sposób przygotowania", "Wartości odżywcze", "Lista zakupów"},
		{d1 + ", 7:30", "Owsianka z jabłkiem", "Ugotuj płatki na mleku", "450,15,10,70", "płatki owsiane, jabłko, mleko"},
		{d1 + ", 13:00", "Zupa pomidorowa", "Podgrzej zupę", "600,20,15,80", ""},
		{d2 + ", 8:00", "Jajecznica", "Usmaż jajka na maśle", "400,25,30,5", ""},
	}

	sheet := f.GetSheetName(0)
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return nil, err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return nil, err
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func testHealthz() error {
	req, err := http.NewRequest("GET", apiBase+"/healthz", nil)
	if err != nil {
		return err
	}

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("status=%d body=%s", resp.StatusCode, string(body))
	}

	return nil
}

func testDevToken() error {
	// If token already set via env, skip
	if token != "" {
		return nil
	}

	req, err := http.NewRequest("POST", apiBase+"/v1/auth/dev", bytes.NewReader([]byte(`{"user_id":"smoke-user"}`)))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	// Auth disabled on the server: run anonymously
	if resp.StatusCode == http.StatusNotFound {
		return nil
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("status=%d body=%s", resp.StatusCode, string(body))
	}

	var result struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return fmt.Errorf("decode failed: %w", err)
	}
	token = result.AccessToken
	return nil
}

func testValidateJSON() error {
	resp, err := upload("/v1/diets/validate")
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("status=%d body=%s", resp.StatusCode, string(body))
	}

	var result struct {
		IsValid bool `json:"is_valid"`
		Errors  []struct {
			Row     int    `json:"row"`
			Message string `json:"message"`
		} `json:"errors"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return fmt.Errorf("decode failed: %w", err)
	}
	if !result.IsValid {
		return fmt.Errorf("sample diet rejected: %+v", result.Errors)
	}
	return nil
}

func testValidatePDF() error {
	resp, err := upload("/v1/diets/validate?format=pdf")
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("status=%d body=%s", resp.StatusCode, string(body))
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read body: %w", err)
	}
	if !bytes.HasPrefix(data, []byte("%PDF")) {
		return fmt.Errorf("response is not a PDF (%d bytes)", len(data))
	}
	return nil
}

func testImportDiet() error {
	resp, err := upload("/v1/diets/import")
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("status=%d body=%s", resp.StatusCode, string(body))
	}

	var result struct {
		Diet struct {
			ID       string `json:"id"`
			Metadata struct {
				TotalDays int `json:"total_days"`
			} `json:"metadata"`
		} `json:"diet"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return fmt.Errorf("decode failed: %w", err)
	}
	if result.Diet.Metadata.TotalDays != 2 {
		return fmt.Errorf("expected 2 days, got %d", result.Diet.Metadata.TotalDays)
	}

	createdIDs["diet"] = result.Diet.ID
	return nil
}

func testListDiets() error {
	resp, err := get(apiBase + "/v1/diets")
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("status=%d body=%s", resp.StatusCode, string(body))
	}

	var result struct {
		Diets []struct {
			ID string `json:"id"`
		} `json:"diets"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return fmt.Errorf("decode failed: %w", err)
	}
	for _, d := range result.Diets {
		if d.ID == createdIDs["diet"] {
			return nil
		}
	}
	return fmt.Errorf("imported diet %s not listed", createdIDs["diet"])
}

func testGetShoppingList() error {
	dietID := createdIDs["diet"]
	if dietID == "" {
		return fmt.Errorf("no diet ID")
	}

	resp, err := get(fmt.Sprintf("%s/v1/diets/%s/shopping-list", apiBase, dietID))
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("status=%d body=%s", resp.StatusCode, string(body))
	}

	var result struct {
		Items []string `json:"items"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return fmt.Errorf("decode failed: %w", err)
	}
	if len(result.Items) != 3 {
		return fmt.Errorf("expected 3 items, got %v", result.Items)
	}
	return nil
}

func testDownloadFile() error {
	dietID := createdIDs["diet"]
	if dietID == "" {
		return fmt.Errorf("no diet ID to download")
	}

	// Don't follow redirects automatically - we need to check redirect behavior
	originalCheckRedirect := client.CheckRedirect
	client.CheckRedirect = func(req *http.Request, via []*http.Request) error {
		return http.ErrUseLastResponse
	}
	defer func() { client.CheckRedirect = originalCheckRedirect }()

	resp, err := get(fmt.Sprintf("%s/v1/diets/%s/file", apiBase, dietID))
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		// Direct serve (local mode)
		return checkWorkbookBody(resp.Body)

	case http.StatusFound:
		// Redirect (S3 mode)
		location := resp.Header.Get("Location")
		if location == "" {
			return fmt.Errorf("redirect without Location header")
		}

		getResp, err := client.Get(location)
		if err != nil {
			return fmt.Errorf("failed to follow redirect: %w", err)
		}
		defer getResp.Body.Close()

		if getResp.StatusCode != http.StatusOK {
			body, _ := io.ReadAll(io.LimitReader(getResp.Body, 4096))
			return fmt.Errorf("redirect failed: status=%d body=%s", getResp.StatusCode, string(body))
		}
		return checkWorkbookBody(getResp.Body)
	}

	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	return fmt.Errorf("unexpected status=%d body=%s", resp.StatusCode, string(body))
}

func testDeleteDiet() error {
	dietID := createdIDs["diet"]
	if dietID == "" {
		return fmt.Errorf("no diet ID to delete")
	}

	req, err := http.NewRequest("DELETE", fmt.Sprintf("%s/v1/diets/%s", apiBase, dietID), nil)
	if err != nil {
		return err
	}
	addAuth(req)

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNoContent {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("status=%d body=%s", resp.StatusCode, string(body))
	}

	return nil
}

// Helper functions

func upload(path string) (*http.Response, error) {
	var b bytes.Buffer
	mw := multipart.NewWriter(&b)
	part, err := mw.CreateFormFile("file", "smoke_diet.xlsx")
	if err != nil {
		return nil, err
	}
	if _, err := part.Write(workbook); err != nil {
		return nil, err
	}
	if err := mw.Close(); err != nil {
		return nil, err
	}

	req, err := http.NewRequest("POST", apiBase+path, &b)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	addAuth(req)

	return client.Do(req)
}

func get(url string) (*http.Response, error) {
	req, err := http.NewRequest("GET", url, nil)
	if err != nil {
		return nil, err
	}
	addAuth(req)
	return client.Do(req)
}

func checkWorkbookBody(r io.Reader) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("failed to read body: %w", err)
	}
	// xlsx is a zip archive
	if !bytes.HasPrefix(data, []byte("PK")) {
		return fmt.Errorf("downloaded file is not an xlsx (%d bytes)", len(data))
	}
	return nil
}

func addAuth(req *http.Request) {
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func maskString(s string) string {
	if s == "" {
		return "(not set)"
	}
	if len(s) <= 8 {
		return "***"
	}
	return s[:4] + "..." + s[len(s)-4:]
}
