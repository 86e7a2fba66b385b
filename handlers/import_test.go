package handlers

import (
	"bytes"
	"context"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/xuri/excelize/v2"
)

func workbook(t *testing.T, rows [][]any) []byte {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetName(0)

	header := make([]any, len(importColumns))
	for i, c := range importColumns {
		header[i] = c
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		t.Fatal(err)
	}
	for i, row := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			t.Fatal(err)
		}
	}
	buf, err := f.WriteToBuffer()
	if err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func upload(t *testing.T, ts *testServer, content []byte) *httptest.ResponseRecorder {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	if content != nil {
		part, err := mw.CreateFormFile("file", "cafes.xlsx")
		if err != nil {
			t.Fatal(err)
		}
		part.Write(content)
	}
	mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/add/excel", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	ts.router.ServeHTTP(w, req)
	return w
}

func TestImportCafes(t *testing.T) {
	ts := newTestServer(t)
	ts.addCafe(t, "Already Here", "London")

	data := workbook(t, [][]any{
		{"Science Gallery", "https://g.co/1", "https://img/1.jpg", "London Bridge", "20-30", "1", "1", "0", "yes", "£2.40"},
		{"No Seats", "https://g.co/2", "https://img/2.jpg", "Hackney", "", "1", "1", "1", "1", ""},
		{"Already Here", "https://g.co/3", "https://img/3.jpg", "London", "5-10", "1", "", "", "", ""},
		{"Barbican", "https://g.co/4", "https://img/4.jpg", "Barbican", "50+", "true", "false", "TRUE", "", ""},
	})

	w := upload(t, ts, data)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d body %s", w.Code, w.Body.String())
	}
	body := decode(t, w)
	if body["imported"] != float64(2) {
		t.Errorf("imported = %v, want 2", body["imported"])
	}
	skipped := body["skipped"].([]any)
	if len(skipped) != 2 {
		t.Fatalf("skipped = %v", skipped)
	}
	rows := map[float64]bool{}
	for _, s := range skipped {
		rows[s.(map[string]any)["row"].(float64)] = true
	}
	if !rows[3] || !rows[4] {
		t.Errorf("skipped rows = %v, want 3 and 4", rows)
	}

	cafes, err := ts.store.FindByLocation(context.Background(), "Barbican")
	if err != nil || len(cafes) != 1 {
		t.Fatalf("Barbican lookup: %v %v", cafes, err)
	}
	b := cafes[0]
	if !b.HasToilet || b.HasWifi || !b.HasSockets || b.CanTakeCalls || b.CoffeePrice != nil {
		t.Errorf("Barbican flags wrong: %+v", b)
	}

	n, _ := ts.store.Count(context.Background())
	if n != 3 {
		t.Errorf("count = %d, want 3", n)
	}
}

func TestImportCafesBadInput(t *testing.T) {
	ts := newTestServer(t)

	tests := []struct {
		name    string
		content []byte
	}{
		{"no file", nil},
		{"not a workbook", []byte("name,loc\nfoo,bar\n")},
		{"header only", workbook(t, nil)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := upload(t, ts, tt.content)
			if w.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400 (%s)", w.Code, w.Body.String())
			}
			errorBody(t, w, "Bad Request")
		})
	}
}
