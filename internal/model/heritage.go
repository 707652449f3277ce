package model

// Heritage is one intangible-heritage entry of the static catalog.
type Heritage struct {
	ID              int      `json:"id"`
	Country         string   `json:"country"`
	Flag            string   `json:"flag,omitempty"`
	Name            string   `json:"name"`
	Year            string   `json:"year"`
	Category        string   `json:"category"`
	Description     string   `json:"description"`
	Tags            []string `json:"tags"`
	FullDescription string   `json:"fullDescription"`
	Value           string   `json:"value"`
	Inheritance     string   `json:"inheritance"`
	Tips            string   `json:"tips"`
	Image           string   `json:"image"`
}

type Option struct {
	ID     string `json:"id"`
	Label  string `json:"label"`
	Detail string `json:"detail,omitempty"`
	Tag    string `json:"tag,omitempty"`
}

// ItineraryPlan is the display content every generated itinerary is built from.
type ItineraryPlan struct {
	Title      string        `json:"title"`
	Analysis   string        `json:"analysis"`
	Summary    []MetaSummary `json:"summary"`
	Highlights []Highlight   `json:"highlights"`
	Days       []DayPlan     `json:"days"`
}

type ItineraryOptions struct {
	Destinations []Option `json:"destinations"`
	Preferences  []string `json:"preferences"`
	TravelStyles []Option `json:"travelStyles"`
	Companions   []Option `json:"companions"`
}

type MetaSummary struct {
	Label string `json:"label"`
	Value string `json:"value"`
	Hint  string `json:"hint"`
}

type Highlight struct {
	Title  string `json:"title"`
	Detail string `json:"detail"`
}

type TimeSlot struct {
	Time        string `json:"time"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

type DayPlan struct {
	Day   string     `json:"day"`
	Title string     `json:"title"`
	Focus []string   `json:"focus"`
	Slots []TimeSlot `json:"slots"`
}

type Itinerary struct {
	Title       string        `json:"title"`
	Analysis    string        `json:"analysis"`
	Destination Option        `json:"destination"`
	TravelStyle string        `json:"travelStyle"`
	Companion   string        `json:"companion"`
	Preferences []string      `json:"preferences"`
	Budget      int           `json:"budget"`
	StartDate   string        `json:"startDate,omitempty"`
	EndDate     string        `json:"endDate,omitempty"`
	TripDays    int           `json:"tripDays,omitempty"`
	Notes       string        `json:"notes,omitempty"`
	Summary     []MetaSummary `json:"summary"`
	Highlights  []Highlight   `json:"highlights"`
	Days        []DayPlan     `json:"days"`
}
