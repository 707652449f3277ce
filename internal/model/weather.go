package model

// QWeatherSuccess is the provider's "code" value for a successful call.
const QWeatherSuccess = "200"

type QWeatherLocation struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Adm1    string `json:"adm1,omitempty"`
	Country string `json:"country,omitempty"`
}

type QWeatherLookupResult struct {
	Code     string             `json:"code"`
	Location []QWeatherLocation `json:"location,omitempty"`
}

type QWeatherNow struct {
	Temp      string `json:"temp"`
	Humidity  string `json:"humidity"`
	WindSpeed string `json:"windSpeed"`
	Icon      string `json:"icon"`
	Text      string `json:"text"`
}

type QWeatherNowResult struct {
	Code string       `json:"code"`
	Now  *QWeatherNow `json:"now,omitempty"`
}
