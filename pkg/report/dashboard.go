// Package report renders dashboard exports
package report

import (
	"fmt"
	"sort"
	"time"

	"github.com/johnfercher/maroto/pkg/color"
	"github.com/johnfercher/maroto/pkg/consts"
	"github.com/johnfercher/maroto/pkg/pdf"
	"github.com/johnfercher/maroto/pkg/props"
	"github.com/sangkips/bizcoach-api/internal/domain/analytics"
	"github.com/shopspring/decimal"
)

// Data is everything the dashboard PDF shows
type Data struct {
	BusinessName string
	TimeFrame    string
	GeneratedAt  time.Time
	Metrics      analytics.DashboardMetrics
	Anomalies    []analytics.AnomalyAlert
	Insights     []analytics.AIInsight
}

var (
	darkGray   = color.Color{Red: 38, Green: 38, Blue: 34}
	mediumGray = color.Color{Red: 121, Green: 119, Blue: 109}
	alertRed   = color.Color{Red: 178, Green: 34, Blue: 34}
)

// Money formats an amount rounded to cents
func Money(v float64) string {
	return decimal.NewFromFloat(v).Round(2).StringFixed(2)
}

// Percent formats a percentage with one decimal
func Percent(v float64) string {
	return decimal.NewFromFloat(v).Round(1).StringFixed(1) + "%"
}

// DashboardPDF renders a one page summary of the dashboard
func DashboardPDF(d Data) ([]byte, error) {
	m := pdf.NewMaroto(consts.Portrait, consts.A4)
	m.SetPageMargins(20, 20, 20)

	title := "Business Dashboard"
	if d.BusinessName != "" {
		title = d.BusinessName + " Dashboard"
	}
	m.Row(12, func() {
		m.Col(8, func() {
			m.Text(title, props.Text{Size: 18, Style: consts.Bold, Color: darkGray})
		})
		m.Col(4, func() {
			m.Text(fmt.Sprintf("Health score %d/100", d.Metrics.HealthScore), props.Text{
				Size: 12, Style: consts.Bold, Color: darkGray, Align: consts.Right,
			})
		})
	})
	m.Row(6, func() {
		m.Col(12, func() {
			m.Text(fmt.Sprintf("Period: %s | Generated %s", d.TimeFrame, d.GeneratedAt.Format("Jan 02, 2006 15:04")), props.Text{
				Size: 9, Color: mediumGray,
			})
		})
	})
	m.Row(6, func() {})

	section(m, "KEY FIGURES")
	kpis := [][2]string{
		{"Revenue", Money(d.Metrics.TotalRevenue)},
		{"Expenses", Money(d.Metrics.TotalExpenses)},
		{"Cost of goods sold", Money(d.Metrics.CostOfGoodsSold)},
		{"Gross profit", Money(d.Metrics.GrossProfit)},
		{"Net profit", Money(d.Metrics.NetProfit)},
		{"Profit margin", Percent(d.Metrics.ProfitMargin)},
		{"ROI", Percent(d.Metrics.ROI)},
		{"Completed sales", fmt.Sprintf("%d", d.Metrics.TotalSales)},
		{"Average order value", Money(d.Metrics.AOV)},
		{"Customer lifetime value", Money(d.Metrics.CLV)},
		{"Customer acquisition cost", Money(d.Metrics.CAC)},
		{"Churn rate", Percent(d.Metrics.ChurnRate)},
	}
	for i := 0; i < len(kpis); i += 2 {
		pair := kpis[i : i+2]
		m.Row(6, func() {
			for _, kv := range pair {
				m.Col(3, func() {
					m.Text(kv[0], props.Text{Size: 9, Color: mediumGray})
				})
				m.Col(3, func() {
					m.Text(kv[1], props.Text{Size: 9, Style: consts.Bold, Color: darkGray, Align: consts.Right})
				})
			}
		})
	}
	m.Row(6, func() {})

	if len(d.Metrics.TopCustomers) > 0 {
		section(m, "TOP CUSTOMERS")
		for _, c := range d.Metrics.TopCustomers {
			line(m, c.Name, fmt.Sprintf("%d orders", c.TotalOrders), Money(c.TotalSpent))
		}
		m.Row(6, func() {})
	}

	if len(d.Metrics.ProfitPerProduct) > 0 {
		section(m, "PROFIT PER PRODUCT")
		for _, p := range d.Metrics.ProfitPerProduct {
			line(m, p.Name, "", Money(p.Profit))
		}
		m.Row(6, func() {})
	}

	if len(d.Metrics.SalesByCategory) > 0 {
		section(m, "SALES BY CATEGORY")
		categories := make([]string, 0, len(d.Metrics.SalesByCategory))
		for c := range d.Metrics.SalesByCategory {
			categories = append(categories, c)
		}
		sort.Strings(categories)
		for _, c := range categories {
			line(m, c, "", Money(d.Metrics.SalesByCategory[c]))
		}
		m.Row(6, func() {})
	}

	if len(d.Anomalies) > 0 {
		section(m, "ALERTS")
		for _, a := range d.Anomalies {
			m.Row(5, func() {
				m.Col(12, func() {
					m.Text(fmt.Sprintf("[%s] %s", a.Type, a.Title), props.Text{Size: 9, Style: consts.Bold, Color: alertRed})
				})
			})
			paragraph(m, a.Description)
		}
		m.Row(6, func() {})
	}

	if len(d.Insights) > 0 {
		section(m, "COACH INSIGHTS")
		for _, in := range d.Insights {
			m.Row(5, func() {
				m.Col(12, func() {
					m.Text(fmt.Sprintf("%s (%s, %s impact)", in.Title, in.Category, in.Impact), props.Text{
						Size: 9, Style: consts.Bold, Color: darkGray,
					})
				})
			})
			paragraph(m, in.Description)
		}
	}

	buf, err := m.Output()
	if err != nil {
		return nil, fmt.Errorf("render dashboard pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func section(m pdf.Maroto, title string) {
	m.Row(8, func() {
		m.Col(12, func() {
			m.Text(title, props.Text{Size: 11, Style: consts.Bold, Color: darkGray})
		})
	})
}

func line(m pdf.Maroto, label, detail, value string) {
	m.Row(5, func() {
		m.Col(6, func() {
			m.Text(label, props.Text{Size: 9, Color: darkGray})
		})
		m.Col(3, func() {
			m.Text(detail, props.Text{Size: 9, Color: mediumGray, Align: consts.Right})
		})
		m.Col(3, func() {
			m.Text(value, props.Text{Size: 9, Color: darkGray, Align: consts.Right})
		})
	})
}

func paragraph(m pdf.Maroto, text string) {
	m.Row(6, func() {
		m.Col(12, func() {
			m.Text(text, props.Text{Size: 8, Color: mediumGray})
		})
	})
}
