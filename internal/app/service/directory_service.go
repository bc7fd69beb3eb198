package service

import (
	"context"
	"errors"

	"github.com/ikkim/member-directory/internal/app/repository"
	"github.com/ikkim/member-directory/internal/directory"
	"github.com/ikkim/member-directory/pkg/logger"
	"gorm.io/gorm"
)

// BrowseResult is one page window of a viewer's directory.
type BrowseResult struct {
	AllowedView directory.ViewMode `json:"allowed_view"`
	Members     []directory.Record `json:"members"`
	Total       int                `json:"total"`
	HasMore     bool               `json:"has_more"`
	Pages       int                `json:"pages"`
}

type DirectoryService interface {
	Browse(viewerID uint, q directory.Query, pages int) (*BrowseResult, error)
	Detail(ctx context.Context, memberID uint) (*directory.DetailView, error)
}

type directoryService struct {
	memberRepo repository.MemberRepository
	pipeline   *directory.Pipeline
	aggregator *directory.Aggregator
	pageSize   int
}

func NewDirectoryService(
	memberRepo repository.MemberRepository,
	pipeline *directory.Pipeline,
	aggregator *directory.Aggregator,
	pageSize int,
) DirectoryService {
	if pageSize <= 0 {
		pageSize = directory.DefaultPageSize
	}
	return &directoryService{
		memberRepo: memberRepo,
		pipeline:   pipeline,
		aggregator: aggregator,
		pageSize:   pageSize,
	}
}

func (s *directoryService) Browse(viewerID uint, q directory.Query, pages int) (*BrowseResult, error) {
	viewerModel, err := s.memberRepo.FindByID(viewerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMemberNotFound
		}
		return nil, err
	}

	members, err := s.memberRepo.FindAll()
	if err != nil {
		return nil, err
	}

	viewer := toRecord(viewerModel)
	result := s.pipeline.Run(&viewer, directory.FromModels(members), q)

	if pages < 1 {
		pages = 1
	}
	page, hasMore := directory.Paginate(result.Records, s.pageSize, pages)

	logger.Debug("Directory browsed", map[string]interface{}{
		"viewer_id":    viewerID,
		"allowed_view": result.AllowedView,
		"field":        q.Field,
		"total":        len(result.Records),
		"returned":     len(page),
	})

	return &BrowseResult{
		AllowedView: result.AllowedView,
		Members:     page,
		Total:       len(result.Records),
		HasMore:     hasMore,
		Pages:       pages,
	}, nil
}

func (s *directoryService) Detail(ctx context.Context, memberID uint) (*directory.DetailView, error) {
	member, err := s.memberRepo.FindByID(memberID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMemberNotFound
		}
		return nil, err
	}

	view := s.aggregator.Aggregate(ctx, toRecord(member))
	return &view, nil
}
