package entity

// Persona system prompt va generatsiya sozlamalari
type Persona struct {
	Intro      string
	Guidelines []string
	Closing    string
	Generation GenerationConfig
	Safety     []SafetySetting
}
