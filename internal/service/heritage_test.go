package service

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHeritageService_List(t *testing.T) {
	svc, err := NewHeritageService()
	require.NoError(t, err)

	all := svc.List("", "")
	assert.Equal(t, 9, all.Total)
	assert.Len(t, all.Items, 9)
	assert.Equal(t, 9, svc.List(CategoryAll, "").Total)

	tests := []struct {
		name     string
		category string
		keyword  string
		wantIDs  []int
	}{
		{"category", "饮食文化", "", []int{5}},
		{"category and keyword", "手工艺", "刺绣", []int{2}},
		{"keyword matches country", "", "意大利", []int{6}},
		{"keyword matches tag", "", "生态保护", []int{7}},
		{"keyword is case-insensitive", "", "slava", []int{8}},
		{"keyword outside category", "音乐舞蹈", "咖啡", nil},
		{"unknown category", "建筑", "", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := svc.List(tt.category, tt.keyword)

			var ids []int
			for _, item := range resp.Items {
				ids = append(ids, item.ID)
			}
			assert.Equal(t, tt.wantIDs, ids)
			assert.Equal(t, len(tt.wantIDs), resp.Total)
			assert.NotNil(t, resp.Items)
		})
	}
}

func TestHeritageService_Get(t *testing.T) {
	svc, err := NewHeritageService()
	require.NoError(t, err)

	item, err := svc.Get(6)
	require.NoError(t, err)
	assert.Equal(t, "克雷莫纳小提琴制作", item.Name)
	assert.Equal(t, "意大利", item.Country)
	assert.NotEmpty(t, item.Tips)

	_, err = svc.Get(999)
	requireAppError(t, err, http.StatusNotFound, "未找到该非遗项目")
}

func TestHeritageService_Categories(t *testing.T) {
	svc, err := NewHeritageService()
	require.NoError(t, err)

	categories := svc.Categories()
	assert.Equal(t, []string{"全部", "手工艺", "音乐舞蹈", "饮食文化", "节庆仪式", "传统知识"}, categories)

	// callers get a copy
	categories[0] = "changed"
	assert.Equal(t, CategoryAll, svc.Categories()[0])
}
