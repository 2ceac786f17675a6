package weather

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mitchellh/mapstructure"
)

const (
	ToolName    = "get_weather_forecast"
	DefaultDays = 3
	MaxDays     = 7
)

// ForecastArgs are the arguments of the forecast tool.
type ForecastArgs struct {
	Latitude  float64 `mapstructure:"latitude"`
	Longitude float64 `mapstructure:"longitude"`
	Days      int     `mapstructure:"days"`
}

// Tool returns the MCP definition of the forecast tool.
func Tool() mcp.Tool {
	return mcp.NewTool(ToolName,
		mcp.WithDescription("Get the weather forecast for a location in the United States given its latitude and longitude."),
		mcp.WithNumber("latitude",
			mcp.Required(),
			mcp.Description("Latitude of the location in decimal degrees (e.g. 40.7128)"),
			mcp.Min(-90),
			mcp.Max(90),
		),
		mcp.WithNumber("longitude",
			mcp.Required(),
			mcp.Description("Longitude of the location in decimal degrees (e.g. -74.0060)"),
			mcp.Min(-180),
			mcp.Max(180),
		),
		mcp.WithNumber("days",
			mcp.Description(fmt.Sprintf("Number of forecast days to return (1-%d, default: %d)", MaxDays, DefaultDays)),
			mcp.Min(1),
			mcp.Max(MaxDays),
			mcp.DefaultNumber(DefaultDays),
		),
	)
}

// DecodeArgs converts raw tool-call arguments into ForecastArgs and applies defaults.
func DecodeArgs(args map[string]any) (ForecastArgs, error) {
	var out ForecastArgs
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &out,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return out, err
	}
	if err := dec.Decode(args); err != nil {
		return out, fmt.Errorf("decode %s arguments: %w", ToolName, err)
	}
	if _, ok := args["latitude"]; !ok {
		return out, fmt.Errorf("%s: latitude is required", ToolName)
	}
	if _, ok := args["longitude"]; !ok {
		return out, fmt.Errorf("%s: longitude is required", ToolName)
	}
	switch {
	case out.Days == 0:
		out.Days = DefaultDays
	case out.Days < 0:
		out.Days = 1
	case out.Days > MaxDays:
		out.Days = MaxDays
	}
	return out, nil
}

// Handler returns the tool implementation backed by c. The result is the text of FormatPeriods,
// limited to the requested number of days (two periods per day).
func Handler(c *Client) func(ctx context.Context, args map[string]any) (any, error) {
	return func(ctx context.Context, args map[string]any) (any, error) {
		in, err := DecodeArgs(args)
		if err != nil {
			return nil, err
		}
		periods, err := c.Forecast(ctx, in.Latitude, in.Longitude)
		if err != nil {
			return nil, err
		}
		if n := in.Days * 2; len(periods) > n {
			periods = periods[:n]
		}
		return FormatPeriods(periods), nil
	}
}
