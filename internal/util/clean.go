package util

import (
	"bytes"
	"fmt"
	"strings"
	"unicode/utf8"

	log "github.com/sirupsen/logrus"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

var charReplacementMap = map[string]string{
	"\u2018": "'", "\u2019": "'", "\u201C": "\"",
	"\u201D": "\"", "\u2013": "-", "\u2014": "--", "\u2026": "...",
	"\u00a0": " ", "\u0096": "-", "\u0097": "--", "\u0091": "'",
	"\u0092": "'", "\u0093": "\"", "\u0094": "\"",
}

// CleanTranscript normalizes raw transcription bytes before classification:
// strips a UTF-8 BOM, repairs invalid byte sequences and replaces the
// Windows-1252 typographic characters speech-to-text exports tend to carry.
func CleanTranscript(raw []byte, src string) (string, error) {
	raw = bytes.TrimPrefix(raw, utf8BOM)

	if !utf8.Valid(raw) {
		log.Warnf("%s contains invalid UTF-8, replacing invalid chars", src)
		raw = bytes.ToValidUTF8(raw, []byte(string(utf8.RuneError)))
	}

	str := string(raw)
	for bad, good := range charReplacementMap {
		str = strings.ReplaceAll(str, bad, good)
	}

	if !utf8.ValidString(str) {
		return "", fmt.Errorf("invalid UTF-8 after replacements: %s", src)
	}
	return strings.TrimSpace(str), nil
}
