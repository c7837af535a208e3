package helper

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetDriverCodeName(t *testing.T) {
	assert.Equal(t, "CLE", GetDriverCodeName("Charles Leclerc"))
	assert.Equal(t, "MVE", GetDriverCodeName("Max Verstappen"))
	assert.Equal(t, "KIM", GetDriverCodeName("Kimi"))
	assert.Equal(t, "", GetDriverCodeName(""))
}

func TestToID(t *testing.T) {
	assert.Equal(t, ToID("Monaco"), ToID("Monaco"))
	assert.NotEqual(t, ToID("Monaco"), ToID("Imola"))
}

func TestSanitizeFileName(t *testing.T) {
	assert.Equal(t, "Monaco_Grand_Prix", SanitizeFileName("Monaco Grand Prix"))
	assert.Equal(t, "Emilia-Romagna", SanitizeFileName("Emilia/Romagna"))
}
