// Package export renders a snapshot of the articles table into the three
// download encodings: delimited text (CSV), columnar binary (parquet), and a
// column-oriented JSON structure. All three are deterministic functions of
// the snapshot they are given.
package export

import (
	"bytes"
	"encoding/csv"
	"strconv"

	"github.com/parquet-go/parquet-go"

	"github.com/articlebias/dataset/internal/biz"
)

// columns is the canonical field order shared by every encoding.
var columns = []string{
	"id", "url", "news_article", "summary",
	"bias_religious", "bias_cultural", "bias_language", "bias_gender", "bias_pro_gov", "bias_anti_gov",
}

// CSV renders the snapshot as delimited text: a header row in canonical field
// order followed by one row per article. Booleans render as true/false. An
// empty snapshot yields header-only output.
func CSV(articles []*biz.Article) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(columns); err != nil {
		return nil, err
	}
	for _, a := range articles {
		record := []string{
			strconv.FormatInt(a.ID, 10),
			a.URL,
			a.NewsArticle,
			a.Summary,
			strconv.FormatBool(a.BiasReligious),
			strconv.FormatBool(a.BiasCultural),
			strconv.FormatBool(a.BiasLanguage),
			strconv.FormatBool(a.BiasGender),
			strconv.FormatBool(a.BiasProGov),
			strconv.FormatBool(a.BiasAntiGov),
		}
		if err := w.Write(record); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// parquetRow mirrors the article schema with boolean-typed bias columns.
type parquetRow struct {
	ID            int64  `parquet:"id"`
	URL           string `parquet:"url"`
	NewsArticle   string `parquet:"news_article"`
	Summary       string `parquet:"summary"`
	BiasReligious bool   `parquet:"bias_religious"`
	BiasCultural  bool   `parquet:"bias_cultural"`
	BiasLanguage  bool   `parquet:"bias_language"`
	BiasGender    bool   `parquet:"bias_gender"`
	BiasProGov    bool   `parquet:"bias_pro_gov"`
	BiasAntiGov   bool   `parquet:"bias_anti_gov"`
}

// Parquet renders the snapshot as a columnar binary file. An empty snapshot
// yields a valid zero-row file that still carries the nine-column schema.
func Parquet(articles []*biz.Article) ([]byte, error) {
	rows := make([]parquetRow, len(articles))
	for i, a := range articles {
		rows[i] = parquetRow{
			ID:            a.ID,
			URL:           a.URL,
			NewsArticle:   a.NewsArticle,
			Summary:       a.Summary,
			BiasReligious: a.BiasReligious,
			BiasCultural:  a.BiasCultural,
			BiasLanguage:  a.BiasLanguage,
			BiasGender:    a.BiasGender,
			BiasProGov:    a.BiasProGov,
			BiasAntiGov:   a.BiasAntiGov,
		}
	}

	var buf bytes.Buffer
	w := parquet.NewGenericWriter[parquetRow](&buf)
	if len(rows) > 0 {
		if _, err := w.Write(rows); err != nil {
			return nil, err
		}
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Dataset renders the snapshot column-oriented: one key per field, each
// holding the ordered sequence of values. An empty snapshot renders as
// {"data": []}.
func Dataset(articles []*biz.Article) map[string]any {
	if len(articles) == 0 {
		return map[string]any{"data": []any{}}
	}

	n := len(articles)
	ids := make([]int64, 0, n)
	urls := make([]string, 0, n)
	texts := make([]string, 0, n)
	summaries := make([]string, 0, n)
	religious := make([]bool, 0, n)
	cultural := make([]bool, 0, n)
	language := make([]bool, 0, n)
	gender := make([]bool, 0, n)
	proGov := make([]bool, 0, n)
	antiGov := make([]bool, 0, n)
	for _, a := range articles {
		ids = append(ids, a.ID)
		urls = append(urls, a.URL)
		texts = append(texts, a.NewsArticle)
		summaries = append(summaries, a.Summary)
		religious = append(religious, a.BiasReligious)
		cultural = append(cultural, a.BiasCultural)
		language = append(language, a.BiasLanguage)
		gender = append(gender, a.BiasGender)
		proGov = append(proGov, a.BiasProGov)
		antiGov = append(antiGov, a.BiasAntiGov)
	}

	return map[string]any{
		"id":             ids,
		"url":            urls,
		"news_article":   texts,
		"summary":        summaries,
		"bias_religious": religious,
		"bias_cultural":  cultural,
		"bias_language":  language,
		"bias_gender":    gender,
		"bias_pro_gov":   proGov,
		"bias_anti_gov":  antiGov,
	}
}
