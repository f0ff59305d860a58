package data

// DetectLanguage classifies user input by script so responses and time
// lookups can follow the user's locale. Kana outranks Han so Japanese text
// that opens with kanji is not mistaken for Chinese.
func DetectLanguage(input string) string {
	var hasKana, hasHan bool
	for _, r := range input {
		switch {
		case r >= 0xAC00 && r <= 0xD7AF:
			return "Korean"
		case (r >= 0x3040 && r <= 0x309F) || (r >= 0x30A0 && r <= 0x30FF):
			hasKana = true
		case r >= 0x4E00 && r <= 0x9FFF:
			hasHan = true
		}
	}
	switch {
	case hasKana:
		return "Japanese"
	case hasHan:
		return "Chinese"
	}
	return "English"
}

// TimezoneFor maps a detected language to a default IANA timezone.
func TimezoneFor(language string) string {
	switch language {
	case "Korean":
		return "Asia/Seoul"
	case "Japanese":
		return "Asia/Tokyo"
	case "Chinese":
		return "Asia/Shanghai"
	case "English":
		return "America/New_York"
	}
	return "UTC"
}
