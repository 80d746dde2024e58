package domain

import "time"

// ProductCategories is the fixed catalogue of billboard formats a product may use.
var ProductCategories = []string{
	"All",
	"Unipole",
	"Gantry",
	"LED Billboard",
	"Wall Drape",
	"Lamp Post",
	"Roof Top",
	"Trivision/Ultrawave",
	"Portrait",
	"Backlit/Landscape",
	"Bridge Panel",
	"Mega Billboard",
	"Long Banner",
	"Sign Board",
	"Mobile Bill Board",
	"Large Format",
	"Glass Panel",
	"48 Sheet",
	"BRT",
	"Bulletin Board",
	"Arc Flag",
	"Ultra wave billboard",
	"Frontlit Billboard",
	"Building Wrap",
	"Car park roof Gantry",
	"Car Display",
	"Airport digital signage",
	"Tower Branding",
	"Led Lamp post billboard",
	"Portrait Led billboard",
	"Revolving Portrait Billboard",
	"Unipole LED Billboard",
	"96 Sheet Billboard",
	"Static Light Box Lamp Post Billboard",
}

// ValidCategory reports whether category is part of the catalogue.
func ValidCategory(category string) bool {
	for _, c := range ProductCategories {
		if c == category {
			return true
		}
	}
	return false
}

// ProductImage describes the hosted picture of a product.
type ProductImage struct {
	Name     string `json:"name"`
	URL      string `json:"url"`
	Key      string `json:"-"`
	Size     int64  `json:"size"`
	MimeType string `json:"mimetype"`
}

// Product is an advertising surface anchored to one Area of one State.
type Product struct {
	ID           string        `json:"id"`
	Title        string        `json:"title"`
	Category     string        `json:"category"`
	Availability bool          `json:"availability"`
	Description  string        `json:"description"`
	Size         string        `json:"size"`
	StateID      string        `json:"state"`
	AreaID       string        `json:"area"`
	Address      string        `json:"address"`
	Image        *ProductImage `json:"image,omitempty"`
	Featured     bool          `json:"featured"`
	Quantity     string        `json:"quantity,omitempty"`
	OwnerID      string        `json:"owner"`
	CreatedAt    time.Time     `json:"createdAt"`
	UpdatedAt    time.Time     `json:"updatedAt"`
}

// ProductFilter narrows product listings to a location.
type ProductFilter struct {
	StateID string
	AreaID  string
}
