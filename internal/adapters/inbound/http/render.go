package httpin

import (
	"bytes"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"strconv"

	"admin_console/internal/core/dashboard"
	"admin_console/internal/core/domain"

	"github.com/shopspring/decimal"
)

const (
	currencySymbol = "₹"
	expiredMessage = "Your session has expired. Reload the page to continue."
)

// Renderer turns dashboard state and the footer into HTML fragments.
type Renderer struct {
	tmpl   *template.Template
	footer FooterView
}

func NewRenderer(fsys fs.FS, footer FooterView) (*Renderer, error) {
	t, err := template.ParseFS(fsys, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	return &Renderer{tmpl: t, footer: footer}, nil
}

type dashboardVM struct {
	Mount     bool
	Expired   string
	Loading   bool
	LoadError string
	Cards     []cardVM
	Orders    []orderRowVM
	Modal     *modalVM
}

type cardVM struct {
	Label string
	Value string
}

type orderRowVM struct {
	ID           int64
	CustomerName string
	Date         string
	Status       string
	Total        string
}

type modalVM struct {
	ID           int64
	CustomerName string
	Date         string
	Status       string
	Total        string
	UpdateError  string
	Statuses     []string
}

type pageVM struct {
	ViewID    string
	Dashboard dashboardVM
	Footer    FooterView
}

func money(d decimal.Decimal) string {
	return currencySymbol + d.String()
}

func newDashboardVM(s dashboard.State) dashboardVM {
	vm := dashboardVM{
		Loading:   s.Loading,
		LoadError: s.LoadError,
	}
	if vm.Loading || vm.LoadError != "" {
		return vm
	}

	// Missing analytics render as zeros.
	var a domain.AnalyticsSummary
	if s.Analytics != nil {
		a = *s.Analytics
	}
	vm.Cards = []cardVM{
		{Label: "Total Users", Value: strconv.FormatInt(a.TotalUsers, 10)},
		{Label: "Total Orders", Value: strconv.FormatInt(a.TotalOrders, 10)},
		{Label: "Revenue", Value: money(a.Revenue)},
		{Label: "Pending Orders", Value: strconv.FormatInt(a.PendingOrders, 10)},
	}

	vm.Orders = make([]orderRowVM, 0, len(s.Orders))
	for _, o := range s.Orders {
		vm.Orders = append(vm.Orders, orderRowVM{
			ID:           o.ID,
			CustomerName: o.CustomerName,
			Date:         o.Date,
			Status:       string(o.Status),
			Total:        money(o.Total),
		})
	}

	if s.ModalOpen && s.Selected != nil {
		o := s.Selected
		m := &modalVM{
			ID:           o.ID,
			CustomerName: o.CustomerName,
			Date:         o.Date,
			Status:       string(o.Status),
			Total:        money(o.Total),
			UpdateError:  s.UpdateError,
		}
		for _, st := range domain.Statuses {
			m.Statuses = append(m.Statuses, string(st))
		}
		vm.Modal = m
	}
	return vm
}

func (r *Renderer) execute(name string, data any) (string, error) {
	var buf bytes.Buffer
	if err := r.tmpl.ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("render %s: %w", name, err)
	}
	return buf.String(), nil
}

func (r *Renderer) Dashboard(s dashboard.State) (string, error) {
	return r.execute("dashboard", newDashboardVM(s))
}

func (r *Renderer) Expired() (string, error) {
	return r.execute("dashboard", dashboardVM{Expired: expiredMessage})
}

func (r *Renderer) Footer() (string, error) {
	return r.execute("footer", r.footer)
}

// Page writes the full shell bound to viewID; the dashboard starts in its
// loading state and mounts itself once the browser runs the init action.
func (r *Renderer) Page(w io.Writer, viewID string) error {
	vm := pageVM{
		ViewID:    viewID,
		Dashboard: dashboardVM{Mount: true, Loading: true},
		Footer:    r.footer,
	}
	return r.tmpl.ExecuteTemplate(w, "layout", vm)
}
