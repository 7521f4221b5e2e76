package weather

const (
	bgDust   = "https://images.unsplash.com/photo-1473496169904-0c0d75e7153e?auto=format&fit=crop&q=80"
	bgBeach  = "https://images.unsplash.com/photo-1501594907352-04cda38ebc29?auto=format&fit=crop&q=80"
	bgSnow   = "https://images.unsplash.com/photo-1477603566046-945b3c7b3d6c?auto=format&fit=crop&q=80"
	bgStorm  = "https://images.unsplash.com/photo-1534086721723-4d4d5c3a36a6?auto=format&fit=crop&q=80"
	bgClouds = "https://images.unsplash.com/photo-1492011221367-f47e3ccd77a0?auto=format&fit=crop&q=80"
)

var backgrounds = map[ThemeID]string{
	ThemeHot:     bgDust,
	ThemeHaze:    bgDust,
	ThemeSunny:   bgBeach,
	ThemeSnow:    bgSnow,
	ThemeRain:    bgStorm,
	ThemeCloudy:  bgClouds,
	ThemeDefault: bgClouds,
}

// Background returns the image for a theme. Unknown themes get the default one.
// Night buckets reuse the day image; renderers dim it using IsNight.
func Background(id ThemeID) string {
	if url, ok := backgrounds[id]; ok {
		return url
	}
	return backgrounds[ThemeDefault]
}
