package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestEstimateSameCountry(t *testing.T) {
	var d DelayService
	delay, text := d.Estimate("Japan", "Japan", 0)
	assert.Equal(t, DelaySameCountry, delay)
	assert.Equal(t, EstimateSameCountry, text)
}

func TestEstimateSameRegion(t *testing.T) {
	var d DelayService
	delay, text := d.Estimate("France", "Germany", 0)
	assert.Equal(t, DelaySameRegion, delay)
	assert.Equal(t, EstimateSameRegion, text)
}

func TestEstimateCrossRegion(t *testing.T) {
	var d DelayService
	delay, text := d.Estimate("Japan", "France", 0)
	assert.Equal(t, DelayLongHaul, delay)
	assert.Equal(t, EstimateLongHaul, text)
}

func TestEstimateUnknownCountryFallsToLongHaul(t *testing.T) {
	var d DelayService
	delay, _ := d.Estimate("Atlantis", "France", 0)
	assert.Equal(t, DelayLongHaul, delay)

	delay, _ = d.Estimate("", "", 0)
	assert.Equal(t, DelayLongHaul, delay, "two empty countries must not look like the same country")
}

func TestEstimateIsSymmetric(t *testing.T) {
	var d DelayService
	pairs := [][2]string{
		{"Japan", "France"},
		{"France", "Germany"},
		{"Brazil", "Argentina"},
		{"Canada", "Australia"},
	}
	for _, pair := range pairs {
		forward, _ := d.Estimate(pair[0], pair[1], 0)
		backward, _ := d.Estimate(pair[1], pair[0], 0)
		assert.Equal(t, forward, backward, "%s/%s", pair[0], pair[1])
	}
}

func TestEstimateNormalizesCountryNames(t *testing.T) {
	var d DelayService
	delay, _ := d.Estimate("  japan ", "JAPAN", 0)
	assert.Equal(t, DelaySameCountry, delay)
}

func TestEstimateIsDeterministic(t *testing.T) {
	var d DelayService
	first, firstText := d.Estimate("Kenya", "Norway", 0)
	second, secondText := d.Estimate("Kenya", "Norway", 0)
	assert.Equal(t, first, second)
	assert.Equal(t, firstText, secondText)
}

func TestEstimateOverride(t *testing.T) {
	var d DelayService
	delay, text := d.Estimate("Japan", "Japan", 90*time.Minute)
	assert.Equal(t, 90*time.Minute, delay)
	assert.Equal(t, "about 1 hour", text)

	delay, text = d.Estimate("Japan", "France", 10*time.Minute)
	assert.Equal(t, 10*time.Minute, delay)
	assert.Equal(t, "about 10 minutes", text)

	delay, text = d.Estimate("Japan", "France", 72*time.Hour)
	assert.Equal(t, 72*time.Hour, delay)
	assert.Equal(t, "about 3 days", text)
}
