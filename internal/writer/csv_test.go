package writer

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/insightdelivered/subscription-detector/internal/models"
)

func sampleReport() *models.Report {
	next := time.Date(2025, 4, 3, 0, 0, 0, 0, time.UTC)
	return &models.Report{
		Format:           models.FormatText,
		Bank:             models.BankBarclays,
		TransactionCount: 12,
		MonthlyTotal:     19.99,
		Subscriptions: []models.ParsedSubscription{
			{
				ID:          "1",
				Name:        "Netflix",
				Category:    models.CategoryVideo,
				Cost:        9.99,
				Frequency:   models.FrequencyMonthly,
				BillingDate: 3,
				Confidence:  100,
				SignUpDate:  time.Date(2025, 1, 3, 0, 0, 0, 0, time.UTC),
				LastUsed:    time.Date(2025, 3, 3, 0, 0, 0, 0, time.UTC),
				NextBilling: &next,
			},
			{
				ID:          "2",
				Name:        "Acme, Storage",
				Category:    models.CategoryOther,
				Cost:        10,
				Frequency:   models.FrequencyUnknown,
				BillingDate: 9,
				Confidence:  60,
				SignUpDate:  time.Date(2025, 3, 9, 0, 0, 0, 0, time.UTC),
				LastUsed:    time.Date(2025, 3, 9, 0, 0, 0, 0, time.UTC),
			},
		},
	}
}

func TestCSVWriter_Write(t *testing.T) {
	var buf bytes.Buffer
	w := &CSVWriter{IncludeHeader: true}
	require.NoError(t, w.Write(&buf, sampleReport()))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	// 5 metadata lines + 1 header + 2 subscriptions
	require.Len(t, lines, 8)
	assert.Equal(t, "# Bank,barclays", lines[0])
	assert.Equal(t, "# Monthly Total,19.99", lines[4])
	assert.Equal(t, "Name,Category,Cost,Frequency,BillingDay,Confidence,SignUpDate,LastUsed,NextBilling", lines[5])
	assert.Equal(t, "Netflix,Video,9.99,monthly,3,100,2025-01-03,2025-03-03,2025-04-03", lines[6])
	assert.Equal(t, `"Acme, Storage",Other,10.00,unknown,9,60,2025-03-09,2025-03-09,`, lines[7])
}

func TestCSVWriter_NoHeader(t *testing.T) {
	var buf bytes.Buffer
	w := &CSVWriter{}
	require.NoError(t, w.Write(&buf, &models.Report{}))

	assert.Equal(t, strings.Join(CSVHeader, ",")+"\n", buf.String())
}

func TestTableWriter_Write(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, TableWriter{}.Write(&buf, sampleReport()))

	out := buf.String()
	assert.Contains(t, out, "NAME")
	assert.Contains(t, out, "£9.99")
	assert.Contains(t, out, "2025-04-03")
	assert.Contains(t, out, "100%")
	assert.Contains(t, out, "2 subscriptions, about £19.99 a month")
}

func TestJSONWriter_Write(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, (&JSONWriter{}).Write(&buf, sampleReport()))

	var decoded struct {
		Bank          string           `json:"bank"`
		Subscriptions []map[string]any `json:"subscriptions"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, "barclays", decoded.Bank)
	require.Len(t, decoded.Subscriptions, 2)
	assert.Equal(t, "2025-04-03", decoded.Subscriptions[0]["nextBilling"])
	assert.NotContains(t, decoded.Subscriptions[1], "nextBilling")
}

func TestNew(t *testing.T) {
	for _, format := range []string{"json", "csv", "table", ""} {
		w, err := New(format)
		require.NoError(t, err, format)
		assert.NotNil(t, w)
	}
	_, err := New("xml")
	assert.Error(t, err)
}

func TestWriteToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "subs.csv")
	require.NoError(t, WriteToFile(&CSVWriter{}, path, sampleReport()))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "Netflix,Video,9.99")
}
