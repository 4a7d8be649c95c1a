package collector

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// sysfsRoot is the mount point of sysfs. Tests point it at a temp dir.
var sysfsRoot = "/sys"

func powerSupplyDir() string {
	return filepath.Join(sysfsRoot, "class/power_supply")
}

func readStringFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", errors.Wrapf(err, "read %s", path)
	}
	return string(data), nil
}

// readFloatFile reads path and returns its leading number. Contents that do
// not start with a number yield 0.
func readFloatFile(path string) (float64, error) {
	s, err := readStringFile(path)
	if err != nil {
		return 0, err
	}
	return parseLeadingFloat(s), nil
}

// parseLeadingFloat parses the longest numeric prefix of s after leading
// whitespace, in the manner of strtod. Trailing garbage is ignored.
func parseLeadingFloat(s string) float64 {
	s = strings.TrimLeft(s, " \t\n\r\v\f")

	i := 0
	if i < len(s) && (s[i] == '+' || s[i] == '-') {
		i++
	}
	digits := 0
	for i < len(s) && isDigit(s[i]) {
		i++
		digits++
	}
	if i < len(s) && s[i] == '.' {
		i++
		for i < len(s) && isDigit(s[i]) {
			i++
			digits++
		}
	}
	if digits == 0 {
		return 0
	}
	end := i

	// Only take the exponent if it has at least one digit.
	if i < len(s) && (s[i] == 'e' || s[i] == 'E') {
		j := i + 1
		if j < len(s) && (s[j] == '+' || s[j] == '-') {
			j++
		}
		if j < len(s) && isDigit(s[j]) {
			for j < len(s) && isDigit(s[j]) {
				j++
			}
			end = j
		}
	}

	v, err := strconv.ParseFloat(s[:end], 64)
	if err != nil {
		// Out of range; ParseFloat still returns ±Inf, which is useless here.
		return 0
	}
	return v
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}
