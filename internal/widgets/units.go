package widgets

import "portal/internal/models"

const (
	fahrenheitOffset = 32
	kelvinOffset     = 273
)

func ConvertToCelsius(f float64) float64 {
	return (f - fahrenheitOffset) * 5 / 9
}

func ConvertToFahrenheit(c float64) float64 {
	return c*9/5 + fahrenheitOffset
}

func ConvertToKelvin(c float64) float64 {
	return c + kelvinOffset
}

func ConvertToCelsiusFromKelvin(k float64) float64 {
	return k - kelvinOffset
}

// NextUnit is the unit that follows u in the F, C, K cycle.
func NextUnit(u models.Unit) models.Unit {
	switch u {
	case models.Fahrenheit:
		return models.Celsius
	case models.Celsius:
		return models.Kelvin
	default:
		return models.Fahrenheit
	}
}

func toCelsius(v float64, from models.Unit) float64 {
	switch from {
	case models.Fahrenheit:
		return ConvertToCelsius(v)
	case models.Kelvin:
		return ConvertToCelsiusFromKelvin(v)
	default:
		return v
	}
}

func fromCelsius(c float64, to models.Unit) float64 {
	switch to {
	case models.Fahrenheit:
		return ConvertToFahrenheit(c)
	case models.Kelvin:
		return ConvertToKelvin(c)
	default:
		return c
	}
}

// ConvertRecords returns a converted copy of records. The input batch is
// left untouched, so callers never see a partially converted batch.
func ConvertRecords(records []models.WeatherRecord, from, to models.Unit) []models.WeatherRecord {
	convert := func(v float64) float64 {
		if from == to {
			return v
		}
		return fromCelsius(toCelsius(v, from), to)
	}

	out := make([]models.WeatherRecord, len(records))
	for i, rec := range records {
		out[i] = rec
		out[i].CurrentWeather.Temperature = convert(rec.CurrentWeather.Temperature)
		if rec.Forecast != nil {
			out[i].Forecast = make([]models.Forecast, len(rec.Forecast))
			for j, f := range rec.Forecast {
				f.HighTemperature = convert(f.HighTemperature)
				f.LowTemperature = convert(f.LowTemperature)
				out[i].Forecast[j] = f
			}
		}
	}
	return out
}

// CycleUnits advances the batch one step through F, C, K. An unknown
// current unit is treated as Fahrenheit.
func CycleUnits(records []models.WeatherRecord, current models.Unit) ([]models.WeatherRecord, models.Unit) {
	if !current.Valid() {
		current = models.Fahrenheit
	}
	next := NextUnit(current)
	return ConvertRecords(records, current, next), next
}

// ConvertToPreference cycles the batch until it is expressed in the
// preferred unit. A missing or unknown preference means Fahrenheit.
func ConvertToPreference(records []models.WeatherRecord, current, preference models.Unit) ([]models.WeatherRecord, models.Unit) {
	if !preference.Valid() {
		preference = models.Fahrenheit
	}
	if !current.Valid() {
		current = models.Fahrenheit
	}
	for current != preference {
		records, current = CycleUnits(records, current)
	}
	return records, current
}
