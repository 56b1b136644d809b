// Package knowledge реализует базу знаний по UX-материалам.
//
// Документы загружаются один раз при старте процесса из каталога ресурсов:
// pdf и docx конвертируются в текст через docconv, markdown и txt читаются
// напрямую. После загрузки база только читается.
//
// Поиск — подсчёт точных (без учёта регистра) вхождений строки запроса
// в полный текст документа. Частичных и нечётких совпадений нет: документ
// без единого вхождения запроса в выдачу не попадает.
package knowledge

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"code.sajari.com/docconv"

	"github.com/magabrotheeeer/ux-assistant/internal/lib/sl"
)

// previewLen — длина превью в рунах, чтобы не разрезать
// многобайтовый символ посередине.
const previewLen = 200

// Document — один загруженный документ базы знаний.
type Document struct {
	Title   string // Имя файла без расширения
	Content string // Полный извлечённый текст
	Type    string // Тип исходного файла: pdf, docx, md, txt
}

// Result — один результат поиска.
type Result struct {
	Title     string `json:"title"`
	Preview   string `json:"preview"`
	Relevance int    `json:"relevance"` // Число вхождений запроса в текст
}

// Summary — сводка по загруженной базе знаний.
type Summary struct {
	TotalDocuments int      `json:"total_documents"`
	Documents      []string `json:"documents"`
	Types          []string `json:"types"`
}

// Service хранит загруженные документы в порядке загрузки.
type Service struct {
	docs []Document
	log  *slog.Logger
}

// New загружает все поддерживаемые документы из каталога dir.
// Отсутствующий каталог не считается ошибкой: база остаётся пустой.
// Файлы, которые не удалось прочитать, пропускаются с записью в лог.
func New(dir string, log *slog.Logger) (*Service, error) {
	const op = "knowledge.New"
	s := &Service{log: log}

	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			log.Warn("knowledge resources directory not found", slog.String("dir", dir))
			return s, nil
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(e.Name()))
		path := filepath.Join(dir, e.Name())

		var content string
		switch ext {
		case ".pdf", ".docx":
			res, convErr := docconv.ConvertPath(path)
			if convErr != nil {
				log.Error("failed to extract document text", slog.String("file", e.Name()), sl.Err(convErr))
				continue
			}
			content = res.Body
		case ".md", ".txt":
			raw, readErr := os.ReadFile(path)
			if readErr != nil {
				log.Error("failed to read document", slog.String("file", e.Name()), sl.Err(readErr))
				continue
			}
			content = string(raw)
		default:
			continue
		}

		s.docs = append(s.docs, Document{
			Title:   strings.TrimSuffix(e.Name(), filepath.Ext(e.Name())),
			Content: strings.TrimSpace(content),
			Type:    strings.TrimPrefix(ext, "."),
		})
		log.Info("loaded knowledge document", slog.String("title", e.Name()))
	}
	return s, nil
}

// Search возвращает до maxResults документов, содержащих запрос как подстроку
// (без учёта регистра), упорядоченных по убыванию числа вхождений.
// Порядок документов с равной релевантностью — порядок загрузки.
func (s *Service) Search(query string, maxResults int) []Result {
	queryLower := strings.ToLower(query)
	if queryLower == "" {
		return nil
	}

	var results []Result
	for _, doc := range s.docs {
		relevance := strings.Count(strings.ToLower(doc.Content), queryLower)
		if relevance == 0 {
			continue
		}
		results = append(results, Result{
			Title:     doc.Title,
			Preview:   preview(doc.Content),
			Relevance: relevance,
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Relevance > results[j].Relevance
	})
	if maxResults > 0 && len(results) > maxResults {
		results = results[:maxResults]
	}
	return results
}

// Context формирует текстовый контекст для промпта из топ-3 результатов поиска
// и возвращает его вместе со списком заголовков использованных документов.
func (s *Service) Context(query string) (string, []string) {
	results := s.Search(query, 3)
	if len(results) == 0 {
		return "No specific knowledge context found. Rely on general UX expertise.", nil
	}

	parts := make([]string, 0, len(results))
	titles := make([]string, 0, len(results))
	for _, r := range results {
		parts = append(parts, fmt.Sprintf("From %s: %s", r.Title, r.Preview))
		titles = append(titles, r.Title)
	}
	return strings.Join(parts, "\n\n"), titles
}

// Summary возвращает сводку по загруженным документам.
func (s *Service) Summary() Summary {
	sum := Summary{TotalDocuments: len(s.docs)}
	seen := make(map[string]bool)
	for _, doc := range s.docs {
		sum.Documents = append(sum.Documents, doc.Title)
		if !seen[doc.Type] {
			seen[doc.Type] = true
			sum.Types = append(sum.Types, doc.Type)
		}
	}
	return sum
}

func preview(content string) string {
	runes := []rune(content)
	if len(runes) > previewLen {
		return string(runes[:previewLen]) + "..."
	}
	return content
}
