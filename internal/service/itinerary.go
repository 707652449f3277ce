package service

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"silkrhyme/internal/apperror"
	"silkrhyme/internal/config"
	"silkrhyme/internal/dto"
	"silkrhyme/internal/model"
	"strings"
	"time"

	"go.uber.org/zap"
)

const dateLayout = "2006-01-02"

//go:embed data/itinerary.json
var itineraryJSON []byte

type itineraryData struct {
	Options model.ItineraryOptions `json:"options"`
	Plan    model.ItineraryPlan    `json:"plan"`
}

type ItineraryService interface {
	Options() *model.ItineraryOptions
	Generate(ctx context.Context, req *dto.ItineraryRequest) (*model.Itinerary, error)
}

type itineraryServiceImpl struct {
	data   itineraryData
	delay  time.Duration
	logger *zap.Logger
}

func NewItineraryService(cfg *config.Itinerary, logger *zap.Logger) (ItineraryService, error) {
	var data itineraryData
	if err := json.Unmarshal(itineraryJSON, &data); err != nil {
		return nil, fmt.Errorf("decode itinerary data: %w", err)
	}
	return &itineraryServiceImpl{
		data:   data,
		delay:  cfg.Delay,
		logger: logger,
	}, nil
}

func (s *itineraryServiceImpl) Options() *model.ItineraryOptions {
	opts := s.data.Options
	return &opts
}

// Generate validates the selections, waits out the generation delay and returns the prepared plan
// with the submitted preferences echoed back. Cancelling ctx aborts the wait.
func (s *itineraryServiceImpl) Generate(ctx context.Context, req *dto.ItineraryRequest) (*model.Itinerary, error) {
	destination, ok := findOption(s.data.Options.Destinations, req.Destination)
	if !ok {
		return nil, apperror.BadRequest("目的地无效")
	}

	travelStyle := s.data.Options.TravelStyles[0]
	if req.TravelStyle != "" {
		if travelStyle, ok = findOption(s.data.Options.TravelStyles, req.TravelStyle); !ok {
			return nil, apperror.BadRequest("旅行节奏无效")
		}
	}

	companion := s.data.Options.Companions[1]
	if req.Companion != "" {
		if companion, ok = findOption(s.data.Options.Companions, req.Companion); !ok {
			return nil, apperror.BadRequest("同行伙伴无效")
		}
	}

	preferences := []string{}
	for _, p := range req.Preferences {
		p = strings.TrimSpace(p)
		if !containsString(s.data.Options.Preferences, p) {
			return nil, apperror.BadRequest("偏好标签无效：" + p)
		}
		if !containsString(preferences, p) {
			preferences = append(preferences, p)
		}
	}

	tripDays, err := tripLength(req.From, req.To)
	if err != nil {
		return nil, err
	}

	if s.delay > 0 {
		timer := time.NewTimer(s.delay)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-timer.C:
		}
	}

	plan := s.data.Plan
	s.logger.Info("itinerary generated",
		zap.String("destination", destination.ID),
		zap.String("travel_style", travelStyle.ID),
		zap.Int("trip_days", tripDays),
	)
	return &model.Itinerary{
		Title:       plan.Title,
		Analysis:    plan.Analysis,
		Destination: destination,
		TravelStyle: travelStyle.ID,
		Companion:   companion.ID,
		Preferences: preferences,
		Budget:      req.Budget,
		StartDate:   strings.TrimSpace(req.From),
		EndDate:     strings.TrimSpace(req.To),
		TripDays:    tripDays,
		Notes:       strings.TrimSpace(req.Notes),
		Summary:     append([]model.MetaSummary(nil), plan.Summary...),
		Highlights:  append([]model.Highlight(nil), plan.Highlights...),
		Days:        append([]model.DayPlan(nil), plan.Days...),
	}, nil
}

// tripLength counts calendar days inclusively; zero when either date is missing.
func tripLength(from, to string) (int, error) {
	from, to = strings.TrimSpace(from), strings.TrimSpace(to)
	if from == "" || to == "" {
		return 0, nil
	}
	start, err := time.Parse(dateLayout, from)
	if err != nil {
		return 0, apperror.BadRequest("出发日期格式错误")
	}
	end, err := time.Parse(dateLayout, to)
	if err != nil {
		return 0, apperror.BadRequest("返程日期格式错误")
	}
	if end.Before(start) {
		return 0, apperror.BadRequest("返程日期不能早于出发日期")
	}
	return int(end.Sub(start).Hours()/24) + 1, nil
}

func findOption(options []model.Option, id string) (model.Option, bool) {
	id = strings.TrimSpace(id)
	for _, opt := range options {
		if opt.ID == id {
			return opt, true
		}
	}
	return model.Option{}, false
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
