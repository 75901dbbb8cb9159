package newsapi

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

type rawArticle struct {
	Source      string `json:"source"`
	SourceID    string `json:"source_id"`
	Author      string `json:"author"`
	Title       string `json:"title"`
	Description string `json:"description"`
	URL         string `json:"url"`
	PublishedAt string `json:"published_at"`
	Content     string `json:"content"`
}

func decodeArticles(data []byte) ([]Article, error) {
	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.DisallowUnknownFields()

	var raws []rawArticle
	if err := decoder.Decode(&raws); err != nil {
		return nil, fmt.Errorf("decode JSON: %w", err)
	}

	articles := make([]Article, 0, len(raws))
	for _, r := range raws {
		if strings.TrimSpace(r.Title) == "" || strings.TrimSpace(r.URL) == "" {
			continue
		}
		if r.PublishedAt != "" {
			if _, err := time.Parse(time.RFC3339, r.PublishedAt); err != nil {
				return nil, fmt.Errorf("parse time for %s: %w", r.URL, err)
			}
		}
		articles = append(articles, Article{
			Source:      Source{ID: r.SourceID, Name: r.Source},
			Author:      r.Author,
			Title:       strings.TrimSpace(r.Title),
			Description: r.Description,
			URL:         strings.TrimSpace(r.URL),
			PublishedAt: r.PublishedAt,
			Content:     r.Content,
		})
	}

	return articles, nil
}
