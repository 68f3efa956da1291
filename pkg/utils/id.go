package utils

import (
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// NewID returns "<prefix>-<unix millis>-<9 random hex chars>". The prefix
// only tells entity kinds apart when reading a document.
func NewID(prefix string) string {
	return NewIDAt(prefix, time.Now())
}

func NewIDAt(prefix string, t time.Time) string {
	if prefix == "" {
		prefix = "id"
	}
	random := strings.ReplaceAll(uuid.NewString(), "-", "")[:9]
	return prefix + "-" + strconv.FormatInt(t.UnixMilli(), 10) + "-" + random
}
