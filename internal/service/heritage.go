package service

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"silkrhyme/internal/apperror"
	"silkrhyme/internal/dto"
	"silkrhyme/internal/model"
	"strings"
)

// CategoryAll is the catalog filter that matches every category.
const CategoryAll = "全部"

var heritageCategories = []string{CategoryAll, "手工艺", "音乐舞蹈", "饮食文化", "节庆仪式", "传统知识"}

//go:embed data/heritage.json
var heritageJSON []byte

type HeritageService interface {
	List(category, keyword string) *dto.HeritageListResponse
	Categories() []string
	Get(id int) (*model.Heritage, error)
}

type heritageServiceImpl struct {
	items      []model.Heritage
	categories []string
}

func NewHeritageService() (HeritageService, error) {
	var items []model.Heritage
	if err := json.Unmarshal(heritageJSON, &items); err != nil {
		return nil, fmt.Errorf("decode heritage catalog: %w", err)
	}
	return newHeritageService(items), nil
}

func newHeritageService(items []model.Heritage) *heritageServiceImpl {
	return &heritageServiceImpl{items: items, categories: heritageCategories}
}

// List filters by exact category (empty or "全部" for all) and by a case-insensitive keyword
// matched against name, country, descriptions and tags.
func (s *heritageServiceImpl) List(category, keyword string) *dto.HeritageListResponse {
	category = strings.TrimSpace(category)
	keyword = strings.ToLower(strings.TrimSpace(keyword))

	items := []model.Heritage{}
	for _, item := range s.items {
		if category != "" && category != CategoryAll && item.Category != category {
			continue
		}
		if keyword != "" && !strings.Contains(searchableText(item), keyword) {
			continue
		}
		items = append(items, item)
	}
	return &dto.HeritageListResponse{Items: items, Total: len(items)}
}

func searchableText(item model.Heritage) string {
	parts := append([]string{item.Name, item.Country, item.Description, item.FullDescription}, item.Tags...)
	return strings.ToLower(strings.Join(parts, " "))
}

func (s *heritageServiceImpl) Categories() []string {
	return append([]string(nil), s.categories...)
}

func (s *heritageServiceImpl) Get(id int) (*model.Heritage, error) {
	for i := range s.items {
		if s.items[i].ID == id {
			item := s.items[i]
			return &item, nil
		}
	}
	return nil, apperror.NotFound("未找到该非遗项目")
}
