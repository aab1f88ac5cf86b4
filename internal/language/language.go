package language

import "fmt"

// Language is a transcription hint offered to visitors who speak their
// greeting in something other than the auto-detected language.
type Language struct {
	Code       string // ISO 639-1
	Name       string
	NativeName string
	Greeting   string // stands in for an empty transcription
}

// Auto leaves detection to the transcription provider.
var Auto = Language{Code: "", Name: "Auto-detect", Greeting: "Hello!"}

var languages = []Language{
	{Code: "ar", Name: "Arabic", NativeName: "العربية", Greeting: "مرحبا!"},
	{Code: "zh", Name: "Chinese", NativeName: "中文", Greeting: "你好！"},
	{Code: "nl", Name: "Dutch", NativeName: "Nederlands", Greeting: "Hallo!"},
	{Code: "en", Name: "English", NativeName: "English", Greeting: "Hello!"},
	{Code: "fr", Name: "French", NativeName: "Français", Greeting: "Bonjour !"},
	{Code: "de", Name: "German", NativeName: "Deutsch", Greeting: "Hallo!"},
	{Code: "hi", Name: "Hindi", NativeName: "हिन्दी", Greeting: "नमस्ते!"},
	{Code: "it", Name: "Italian", NativeName: "Italiano", Greeting: "Ciao!"},
	{Code: "ja", Name: "Japanese", NativeName: "日本語", Greeting: "こんにちは！"},
	{Code: "ko", Name: "Korean", NativeName: "한국어", Greeting: "안녕하세요!"},
	{Code: "pl", Name: "Polish", NativeName: "Polski", Greeting: "Cześć!"},
	{Code: "pt", Name: "Portuguese", NativeName: "Português", Greeting: "Olá!"},
	{Code: "ru", Name: "Russian", NativeName: "Русский", Greeting: "Привет!"},
	{Code: "es", Name: "Spanish", NativeName: "Español", Greeting: "¡Hola!"},
	{Code: "sv", Name: "Swedish", NativeName: "Svenska", Greeting: "Hej!"},
	{Code: "tr", Name: "Turkish", NativeName: "Türkçe", Greeting: "Merhaba!"},
	{Code: "uk", Name: "Ukrainian", NativeName: "Українська", Greeting: "Привіт!"},
}

var codeIndex map[string]Language

func init() {
	codeIndex = make(map[string]Language, len(languages)+1)
	codeIndex[""] = Auto
	for _, lang := range languages {
		codeIndex[lang.Code] = lang
	}
}

// FromCode returns the Language for code, or Auto if unknown.
func FromCode(code string) Language {
	if lang, ok := codeIndex[code]; ok {
		return lang
	}
	return Auto
}

// List returns the supported languages, excluding Auto.
func List() []Language {
	result := make([]Language, len(languages))
	copy(result, languages)
	return result
}

func Codes() []string {
	codes := make([]string, len(languages))
	for i, lang := range languages {
		codes[i] = lang.Code
	}
	return codes
}

// IsValidCode reports whether code is known. The empty code (auto) is valid.
func IsValidCode(code string) bool {
	_, ok := codeIndex[code]
	return ok
}

// Greeting returns the fallback utterance for code.
func Greeting(code string) string {
	return FromCode(code).Greeting
}

// Label is the display form used in pickers.
func (l Language) Label() string {
	if l.NativeName == "" || l.NativeName == l.Name {
		return l.Name
	}
	return fmt.Sprintf("%s (%s)", l.Name, l.NativeName)
}
