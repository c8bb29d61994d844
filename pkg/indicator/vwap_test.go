package indicator

import (
	"math"
	"testing"
	"time"

	"github.com/quantlab/portfolio-insight/internal/models"
)

func volumeBar(i int, c float64, v int64) *models.PriceBar {
	return &models.PriceBar{
		Date:   time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, i),
		Open:   c,
		High:   c,
		Low:    c,
		Close:  c,
		Volume: v,
	}
}

func TestVWAP_Cumulative(t *testing.T) {
	vwap := NewVWAP()

	vwap.Update(volumeBar(0, 100, 1000))
	val, err := vwap.Update(volumeBar(1, 110, 3000))
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	// (100*1000 + 110*3000) / 4000
	expected := 107.5
	if math.Abs(val-expected) > 1e-9 {
		t.Errorf("Expected VWAP %f, got %f", expected, val)
	}
}

func TestVWAP_UndefinedWithoutVolume(t *testing.T) {
	vwap := NewVWAP()

	val, err := vwap.Update(volumeBar(0, 100, 0))
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if val != 0 || vwap.IsReady() {
		t.Error("VWAP should be undefined while no volume has traded")
	}
	if _, err := vwap.Value(); err == nil {
		t.Error("Expected error from Value before any volume")
	}

	// First traded volume defines it
	val, _ = vwap.Update(volumeBar(1, 110, 500))
	if !vwap.IsReady() {
		t.Fatal("VWAP should be ready once volume trades")
	}
	if math.Abs(val-110) > 1e-9 {
		t.Errorf("Expected VWAP 110, got %f", val)
	}
}

func TestVWAP_Reset(t *testing.T) {
	vwap := NewVWAP()
	vwap.Update(volumeBar(0, 100, 1000))
	vwap.Reset()

	if vwap.IsReady() {
		t.Error("VWAP should not be ready after Reset")
	}
	if vwap.BarsProcessed() != 0 {
		t.Errorf("Expected 0 bars processed after Reset, got %d", vwap.BarsProcessed())
	}
}
