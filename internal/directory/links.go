package directory

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/idilsaglam/restaurants/internal/model"
)

// RestaurantURL is the detail page of r. List entries and markers both use it.
func RestaurantURL(r model.Restaurant) string {
	return "restaurant.html?id=" + strconv.Itoa(r.ID)
}

// ImageURL is the base image path of r, without size suffix or extension.
func ImageURL(r model.Restaurant) string {
	name := strings.TrimSpace(r.Photograph)
	if name == "" {
		name = strconv.Itoa(r.ID)
	}
	name = strings.TrimSuffix(name, ".jpg")
	return "/img/" + name
}

// ImageSet is the responsive variants of one restaurant image.
type ImageSet struct {
	Src     string // default 800px 1x
	Small   string // 400px 1x
	Small2x string // 400px 2x
	Large2x string // 800px 2x
	Alt     string
}

// Images derives the responsive variants and alt text for r.
func Images(r model.Restaurant) ImageSet {
	base := ImageURL(r)
	return ImageSet{
		Src:     fmt.Sprintf("%s-800_1x.jpg", base),
		Small:   fmt.Sprintf("%s-400_1x.jpg", base),
		Small2x: fmt.Sprintf("%s-400_2x.jpg", base),
		Large2x: fmt.Sprintf("%s-800_2x.jpg", base),
		Alt:     fmt.Sprintf("An Image of %s Restaurant", r.Name),
	}
}

// FavoriteLabel is the accessible label of the favorite control.
func FavoriteLabel(favorite bool) string {
	if favorite {
		return "Remove as favorite"
	}
	return "Mark as favorite"
}
