package attachment

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var sizePattern = regexp.MustCompile(`^(\d+(?:\.\d+)?)(B|KB|MB|GB)$`)

var sizeUnits = map[string]int64{
	"B":  1,
	"KB": 1024,
	"MB": 1024 * 1024,
	"GB": 1024 * 1024 * 1024,
}

// ParseSize parses a size string (e.g., "10MB", "512KB") into bytes.
//
// Supported units: B, KB, MB, GB (case-insensitive)
// An empty string means no limit and parses as 0.
func ParseSize(sizeStr string) (int64, error) {
	s := strings.ToUpper(strings.TrimSpace(sizeStr))
	if s == "" {
		return 0, nil
	}

	matches := sizePattern.FindStringSubmatch(s)
	if matches == nil {
		return 0, fmt.Errorf("invalid format: '%s'. Use format like '512KB', '10MB'", sizeStr)
	}

	value, err := strconv.ParseFloat(matches[1], 64)
	if err != nil {
		return 0, fmt.Errorf("invalid numeric value: %v", err)
	}

	return int64(value * float64(sizeUnits[matches[2]])), nil
}

// FormatSize renders a byte count the way the attachment lists show it.
func FormatSize(bytes int64) string {
	switch {
	case bytes >= sizeUnits["GB"]:
		return fmt.Sprintf("%.1f GB", float64(bytes)/float64(sizeUnits["GB"]))
	case bytes >= sizeUnits["MB"]:
		return fmt.Sprintf("%.1f MB", float64(bytes)/float64(sizeUnits["MB"]))
	case bytes >= sizeUnits["KB"]:
		return fmt.Sprintf("%.1f KB", float64(bytes)/float64(sizeUnits["KB"]))
	default:
		return fmt.Sprintf("%d B", bytes)
	}
}
