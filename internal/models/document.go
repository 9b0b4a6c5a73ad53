package models

// Heading: элемент оглавления (h1–h3).
type Heading struct {
	ID    string `json:"id"`
	Level int    `json:"level"`
	Text  string `json:"text"`
}

// Reference: ссылка из раздела «참고»/References.
type Reference struct {
	URL   string `json:"url"`
	Title string `json:"title"`
}

// RenderedDocument: HTML поста и извлечённая структура.
type RenderedDocument struct {
	HTML               string      `json:"html"`
	Headings           []Heading   `json:"headings"`
	References         []Reference `json:"references"`
	ReadingTimeMinutes int         `json:"readingTimeMinutes"`
	ReadingTime        string      `json:"readingTime"`
}
