package httpin

import "time"

type FooterLink struct {
	Label string
	Href  string
}

// FooterView is the static admin footer. Only the copyright year changes,
// and it is read from the clock on every render.
type FooterView struct {
	Brand        string
	Links        []FooterLink
	SupportEmail string
	Phone        string
	Address      string
	Version      string
	LastUpdated  string

	now func() time.Time
}

func NewFooterView(version string, now func() time.Time) FooterView {
	if now == nil {
		now = time.Now
	}
	if version == "" {
		version = "1.0.0"
	}
	return FooterView{
		Brand: "Chai-Chai Admin",
		Links: []FooterLink{
			{Label: "Dashboard", Href: "/admin/dashboard"},
			{Label: "Orders", Href: "/admin/all-orders"},
			{Label: "Users", Href: "/admin/users"},
			{Label: "Settings", Href: "/admin/settings"},
		},
		SupportEmail: "admin-support@chai-chai.com",
		Phone:        "+91 9373037975",
		Address:      "Pune, India",
		Version:      version,
		LastUpdated:  "April 2025",
		now:          now,
	}
}

func (f FooterView) Year() int {
	return f.now().Year()
}
