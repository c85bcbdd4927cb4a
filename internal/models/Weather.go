package models

// Unit is a temperature scale.
type Unit string

const (
	Fahrenheit Unit = "F"
	Celsius    Unit = "C"
	Kelvin     Unit = "K"
)

func (u Unit) Valid() bool {
	return u == Fahrenheit || u == Celsius || u == Kelvin
}

type CurrentWeather struct {
	Temperature float64 `json:"temperature"`
	Condition   string  `json:"condition,omitempty"`
}

type Forecast struct {
	Day             string  `json:"day,omitempty"`
	HighTemperature float64 `json:"highTemperature"`
	LowTemperature  float64 `json:"lowTemperature"`
	Condition       string  `json:"condition,omitempty"`
}

type WeatherRecord struct {
	Location       any            `json:"location,omitempty"`
	CurrentWeather CurrentWeather `json:"currentWeather"`
	Forecast       []Forecast     `json:"forecast"`
}

type WeatherPreference struct {
	UserWeatherPreference Unit `json:"userWeatherPreference"`
}
