package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/grafana/grafana-foundation-sdk/go/common"
	"github.com/grafana/grafana-foundation-sdk/go/dashboard"
	"github.com/grafana/grafana-foundation-sdk/go/prometheus"
	"github.com/grafana/grafana-foundation-sdk/go/timeseries"
)

func main() {
	builder := dashboard.NewDashboardBuilder("OTP Gateway").
		Uid("otp-gateway").
		Tags([]string{"otp", "sms", "prometheus"}).
		Refresh("1m").
		Time("now-6h", "now").
		Timezone(common.TimeZoneBrowser)

	builder = builder.WithRow(dashboard.NewRowBuilder("Admission"))
	builder = builder.WithPanel(
		timeseries.NewPanelBuilder().
			Title("Request rate").
			WithTarget(
				prometheus.NewDataqueryBuilder().
					Expr(`sum(rate(otp_gateway_requests_total[5m]))`).
					LegendFormat("requests"),
			).
			WithTarget(
				prometheus.NewDataqueryBuilder().
					Expr(`sum(rate(otp_gateway_rate_limited_total[5m]))`).
					LegendFormat("rate_limited"),
			).
			WithTarget(
				prometheus.NewDataqueryBuilder().
					Expr(`sum(rate(otp_gateway_invalid_phone_total[5m]))`).
					LegendFormat("invalid_phone"),
			),
	)
	builder = builder.WithPanel(
		timeseries.NewPanelBuilder().
			Title("Tracked rate-limit keys").
			WithTarget(
				prometheus.NewDataqueryBuilder().
					Expr(`otp_gateway_rate_limit_tracked_keys`).
					LegendFormat("keys"),
			),
	)

	builder = builder.WithRow(dashboard.NewRowBuilder("Delivery"))
	builder = builder.WithPanel(
		timeseries.NewPanelBuilder().
			Title("Delivery outcomes").
			WithTarget(
				prometheus.NewDataqueryBuilder().
					Expr(`sum(rate(otp_gateway_sent_total[5m]))`).
					LegendFormat("sent"),
			).
			WithTarget(
				prometheus.NewDataqueryBuilder().
					Expr(`sum(rate(otp_gateway_send_errors_total[5m]))`).
					LegendFormat("errors"),
			).
			WithTarget(
				prometheus.NewDataqueryBuilder().
					Expr(`sum(rate(otp_gateway_simulated_total[5m]))`).
					LegendFormat("simulated"),
			),
	)
	builder = builder.WithPanel(
		timeseries.NewPanelBuilder().
			Title("Provider send duration avg").
			WithTarget(
				prometheus.NewDataqueryBuilder().
					Expr(`sum(rate(otp_gateway_send_duration_seconds_sum[5m])) / sum(rate(otp_gateway_send_duration_seconds_count[5m]))`).
					LegendFormat("avg"),
			),
	)

	dashboardJSON, err := builder.Build()
	if err != nil {
		panic(err)
	}

	outputPath := os.Getenv("DASHBOARD_OUT")
	if outputPath == "" {
		outputPath = "dashboard.json"
	}

	payload, err := json.MarshalIndent(dashboardJSON, "", "  ")
	if err != nil {
		panic(err)
	}

	if err := os.WriteFile(outputPath, payload, 0o600); err != nil {
		panic(err)
	}

	fmt.Printf("dashboard written to %s\n", outputPath)
}
