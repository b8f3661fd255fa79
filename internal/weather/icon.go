package weather

// conditionIcons maps the API's primary condition labels to widget icons.
var conditionIcons = map[string]IconID{
	"Haze":    IconClearDay,
	"Clouds":  IconCloudy,
	"Rain":    IconRain,
	"Snow":    IconSnow,
	"Dust":    IconWind,
	"Drizzle": IconSleet,
	"Fog":     IconFog,
	"Smoke":   IconFog,
	"Tornado": IconWind,
}

// MapConditionToIcon returns the icon for a condition label.
// Labels outside the table, including "", map to IconClearDay.
func MapConditionToIcon(label string) IconID {
	if icon, ok := conditionIcons[label]; ok {
		return icon
	}
	return IconClearDay
}
