package source

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gen2brain/go-fitz"
	"gopkg.in/yaml.v3"

	"github.com/ivlev/quiz2video/internal/quiz"
)

// Source - колода вопросов из файла.
type Source interface {
	Name() string
	Questions() []quiz.Question
	Close() error
}

// Open выбирает источник по расширению файла.
func Open(path string) (Source, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".pdf":
		return NewFitzPDFSource(path)
	case ".yaml", ".yml":
		return NewYAMLSource(path)
	case ".txt", "":
		return NewTextSource(path)
	default:
		return nil, fmt.Errorf("неизвестный формат колоды: %s", path)
	}
}

// deckName - имя колоды без расширения, для имени выходной папки.
func deckName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// deck - общая часть всех источников: вопросы уже в памяти.
type deck struct {
	name      string
	questions []quiz.Question
}

func (d *deck) Name() string               { return d.name }
func (d *deck) Questions() []quiz.Question { return d.questions }
func (d *deck) Close() error               { return nil }

// TextSource - текстовый файл с блоками вопросов.
type TextSource struct {
	deck
}

func NewTextSource(path string) (*TextSource, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	qs, err := quiz.Parse(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("ошибка разбора %s: %w", path, err)
	}
	return &TextSource{deck{name: deckName(path), questions: qs}}, nil
}

// YAMLSource - колода в формате YAML:
//
//	questions:
//	  - question: What is the capital of France?
//	    options: [a) Paris, b) Berlin, c) London, d) Madrid]
//	    answer: a) Paris
type YAMLSource struct {
	deck
}

type yamlDeck struct {
	Questions []quiz.Question `yaml:"questions"`
}

func NewYAMLSource(path string) (*YAMLSource, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	qs, err := ParseYAML(data)
	if err != nil {
		return nil, fmt.Errorf("ошибка разбора %s: %w", path, err)
	}
	return &YAMLSource{deck{name: deckName(path), questions: qs}}, nil
}

// ParseYAML читает колоду YAML и нумерует вопросы без номера по порядку.
func ParseYAML(data []byte) ([]quiz.Question, error) {
	var d yamlDeck
	if err := yaml.Unmarshal(data, &d); err != nil {
		return nil, err
	}
	for i := range d.Questions {
		if d.Questions[i].Number == 0 {
			d.Questions[i].Number = i + 1
		}
	}
	return d.Questions, nil
}

// FitzPDFSource - вопросы, извлеченные из текстового слоя PDF.
type FitzPDFSource struct {
	deck
	doc  *fitz.Document
	path string
}

func NewFitzPDFSource(path string) (*FitzPDFSource, error) {
	doc, err := fitz.New(path)
	if err != nil {
		return nil, err
	}

	var sb strings.Builder
	for i := 0; i < doc.NumPage(); i++ {
		text, err := doc.Text(i)
		if err != nil {
			doc.Close()
			return nil, fmt.Errorf("страница %d: %w", i+1, err)
		}
		sb.WriteString(text)
		sb.WriteString("\n\n")
	}

	qs, err := quiz.ParseString(sb.String())
	if err != nil {
		doc.Close()
		return nil, fmt.Errorf("ошибка разбора %s: %w", path, err)
	}
	return &FitzPDFSource{deck: deck{name: deckName(path), questions: qs}, doc: doc, path: path}, nil
}

func (f *FitzPDFSource) PageCount() int {
	return f.doc.NumPage()
}

func (f *FitzPDFSource) Close() error {
	return f.doc.Close()
}
