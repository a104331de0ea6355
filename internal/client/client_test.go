package client

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

// fixtureTree is a trimmed LibreHardwareMonitor data.json capture.
const fixtureTree = `{
  "id": 0, "Text": "Sensor", "Min": "Min", "Value": "Value", "Max": "Max", "ImageURL": "",
  "Children": [{
    "id": 1, "Text": "DESKTOP-01", "Min": "", "Value": "", "Max": "", "ImageURL": "images_icon/computer.png",
    "Children": [
      {
        "id": 2, "Text": "ASUS PRIME X570-P", "Min": "", "Value": "", "Max": "", "ImageURL": "images_icon/mainboard.png",
        "Children": [{
          "id": 3, "Text": "Nuvoton NCT6798D", "Min": "", "Value": "", "Max": "", "ImageURL": "images_icon/chip.png",
          "Children": [{
            "id": 4, "Text": "Temperatures", "Min": "", "Value": "", "Max": "", "ImageURL": "images_icon/temperature.png",
            "Children": [
              {"id": 5, "Text": "Motherboard", "Min": "30.0 °C", "Value": "34.5 °C", "Max": "36.0 °C", "ImageURL": "images/transparent.png", "Children": []},
              {"id": 6, "Text": "PCH", "Min": "40.0 °C", "Value": "44,5 °C", "Max": "46.0 °C", "ImageURL": "images/transparent.png", "Children": []}
            ]
          }]
        }]
      },
      {
        "id": 7, "Text": "AMD Ryzen 7 3700X", "Min": "", "Value": "", "Max": "", "ImageURL": "images_icon/cpu.png",
        "Children": [
          {
            "id": 8, "Text": "Temperatures", "Min": "", "Value": "", "Max": "", "ImageURL": "images_icon/temperature.png",
            "Children": [
              {"id": 9, "Text": "Core (Tctl/Tdie)", "Min": "35.0 °C", "Value": "52.3 °C", "Max": "80.1 °C", "ImageURL": "images/transparent.png", "SensorId": "/amdcpu/0/temperature/2", "Type": "Temperature", "Children": []}
            ]
          },
          {
            "id": 10, "Text": "Load", "Min": "", "Value": "", "Max": "", "ImageURL": "images_icon/load.png",
            "Children": [
              {"id": 11, "Text": "CPU Total", "Min": "1.0 %", "Value": "12.5 %", "Max": "99.0 %", "ImageURL": "images/transparent.png", "Children": []}
            ]
          }
        ]
      },
      {
        "id": 12, "Text": "NVIDIA GeForce RTX 3070", "Min": "", "Value": "", "Max": "", "ImageURL": "images_icon/nvidia.png",
        "Children": [
          {
            "id": 13, "Text": "Temperatures", "Min": "", "Value": "", "Max": "", "ImageURL": "images_icon/temperature.png",
            "Children": [
              {"id": 14, "Text": "GPU Core", "Min": "30.0 °C", "Value": "41.0 °C", "Max": "70.0 °C", "ImageURL": "images/transparent.png", "Children": []}
            ]
          },
          {
            "id": 15, "Text": "Load", "Min": "", "Value": "", "Max": "", "ImageURL": "images_icon/load.png",
            "Children": [
              {"id": 16, "Text": "GPU Core", "Min": "0.0 %", "Value": "7.0 %", "Max": "100.0 %", "ImageURL": "images/transparent.png", "Children": []}
            ]
          },
          {
            "id": 17, "Text": "SmallData", "Min": "", "Value": "", "Max": "", "ImageURL": "images_icon/smalldata.png",
            "Children": [
              {"id": 18, "Text": "GPU Memory Total", "Min": "8192 MB", "Value": "8192 MB", "Max": "8192 MB", "ImageURL": "images/transparent.png", "Children": []}
            ]
          }
        ]
      }
    ]
  }]
}`

// newTestClient creates a DefaultClient pointed at the given test server URL.
func newTestClient(t *testing.T, baseURL string) *DefaultClient {
	t.Helper()
	c, err := NewDefaultClient(ClientConfig{
		BaseURL:        baseURL,
		RequestTimeout: 5 * time.Second,
	})
	if err != nil {
		t.Fatalf("NewDefaultClient: %v", err)
	}
	return c
}

func fixtureServer(t *testing.T) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/data.json" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		if got := r.Header.Get("Accept"); got != "application/json" {
			t.Errorf("Accept = %q, want application/json", got)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(fixtureTree))
	}))
}

func TestNewDefaultClient_Defaults(t *testing.T) {
	c, err := NewDefaultClient(ClientConfig{})
	if err != nil {
		t.Fatalf("NewDefaultClient: %v", err)
	}
	if c.BaseURL() != DefaultSensorURL {
		t.Errorf("BaseURL = %q, want %q", c.BaseURL(), DefaultSensorURL)
	}
	if c.http.Timeout != 2*time.Second {
		t.Errorf("Timeout = %v, want 2s", c.http.Timeout)
	}
}

func TestGetSensors(t *testing.T) {
	srv := fixtureServer(t)
	defer srv.Close()

	c := newTestClient(t, srv.URL+"/data.json")
	root, err := c.GetSensors(context.Background())
	if err != nil {
		t.Fatalf("GetSensors: %v", err)
	}
	if root.Text != "Sensor" {
		t.Errorf("root Text = %q, want Sensor", root.Text)
	}
	if len(root.Children) != 1 || len(root.Children[0].Children) != 3 {
		t.Fatalf("unexpected tree shape: %+v", root)
	}
}

func TestReadings(t *testing.T) {
	srv := fixtureServer(t)
	defer srv.Close()

	root, err := newTestClient(t, srv.URL+"/data.json").GetSensors(context.Background())
	if err != nil {
		t.Fatalf("GetSensors: %v", err)
	}

	readings := root.Readings()
	if len(readings) != 7 {
		t.Fatalf("got %d readings, want 7: %+v", len(readings), readings)
	}

	want := []struct {
		hwKind string
		label  string
		typ    string
		value  float64
	}{
		{KindSuperIO, "Motherboard", TypeTemperature, 34.5},
		{KindSuperIO, "PCH", TypeTemperature, 44.5},
		{KindCPU, "Core (Tctl/Tdie)", TypeTemperature, 52.3},
		{KindCPU, "CPU Total", TypeLoad, 12.5},
		{KindGPU, "GPU Core", TypeTemperature, 41.0},
		{KindGPU, "GPU Core", TypeLoad, 7.0},
		{KindGPU, "GPU Memory Total", TypeSmallData, 8192},
	}
	for i, w := range want {
		r := readings[i]
		if r.Hardware.Kind != w.hwKind || r.Label != w.label || r.Type != w.typ {
			t.Errorf("reading %d = {%s %q %s}, want {%s %q %s}", i, r.Hardware.Kind, r.Label, r.Type, w.hwKind, w.label, w.typ)
		}
		if r.Value == nil || *r.Value != w.value {
			t.Errorf("reading %d value = %v, want %v", i, r.Value, w.value)
		}
	}
}

func TestHardware(t *testing.T) {
	srv := fixtureServer(t)
	defer srv.Close()

	root, err := newTestClient(t, srv.URL+"/data.json").GetSensors(context.Background())
	if err != nil {
		t.Fatalf("GetSensors: %v", err)
	}

	hw := root.Hardware()
	want := []Hardware{
		{Name: "ASUS PRIME X570-P", Kind: KindMainboard},
		{Name: "Nuvoton NCT6798D", Kind: KindSuperIO},
		{Name: "AMD Ryzen 7 3700X", Kind: KindCPU},
		{Name: "NVIDIA GeForce RTX 3070", Kind: KindGPU},
	}
	if len(hw) != len(want) {
		t.Fatalf("got %d hardware nodes, want %d: %+v", len(hw), len(want), hw)
	}
	for i := range want {
		if hw[i] != want[i] {
			t.Errorf("hardware %d = %+v, want %+v", i, hw[i], want[i])
		}
	}
}

func TestParseValue(t *testing.T) {
	cases := []struct {
		raw  string
		want *float64
	}{
		{"45.0 °C", ptr(45.0)},
		{"44,5 °C", ptr(44.5)},
		{"61.8°C", ptr(61.8)},
		{"12.5 %", ptr(12.5)},
		{"3600 MHz", ptr(3600)},
		{"", nil},
		{"n/a", nil},
	}
	for _, tc := range cases {
		got := ParseValue(tc.raw)
		switch {
		case tc.want == nil && got != nil:
			t.Errorf("ParseValue(%q) = %v, want nil", tc.raw, *got)
		case tc.want != nil && got == nil:
			t.Errorf("ParseValue(%q) = nil, want %v", tc.raw, *tc.want)
		case tc.want != nil && *got != *tc.want:
			t.Errorf("ParseValue(%q) = %v, want %v", tc.raw, *got, *tc.want)
		}
	}
}

func TestPing_Success(t *testing.T) {
	srv := fixtureServer(t)
	defer srv.Close()

	if err := newTestClient(t, srv.URL+"/data.json").Ping(context.Background()); err != nil {
		t.Errorf("Ping: %v", err)
	}
}

func TestPing_Failure(t *testing.T) {
	// Nothing listens on this port.
	c := newTestClient(t, "http://127.0.0.1:1/data.json")
	if err := c.Ping(context.Background()); err == nil {
		t.Error("expected error pinging closed port")
	}
}

func TestBasicAuth(t *testing.T) {
	var gotUser, gotPass string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUser, gotPass, _ = r.BasicAuth()
		_, _ = w.Write([]byte(`{"Text":"Sensor","Children":[]}`))
	}))
	defer srv.Close()

	c, err := NewDefaultClient(ClientConfig{
		BaseURL:  srv.URL,
		Username: "admin",
		Password: "hunter2",
	})
	if err != nil {
		t.Fatalf("NewDefaultClient: %v", err)
	}
	if _, err := c.GetSensors(context.Background()); err != nil {
		t.Fatalf("GetSensors: %v", err)
	}
	if gotUser != "admin" || gotPass != "hunter2" {
		t.Errorf("basic auth = %q/%q, want admin/hunter2", gotUser, gotPass)
	}
}

func TestHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "remote web server disabled", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	_, err := newTestClient(t, srv.URL).GetSensors(context.Background())
	if err == nil {
		t.Fatal("expected error for 503")
	}
	if !strings.Contains(err.Error(), "503") {
		t.Errorf("error %q does not mention status", err)
	}
}

func TestContextCancellation(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	start := time.Now()
	_, err := newTestClient(t, srv.URL).GetSensors(ctx)
	if err == nil {
		t.Fatal("expected error on cancelled context")
	}
	if time.Since(start) > time.Second {
		t.Errorf("GetSensors ignored context deadline (took %v)", time.Since(start))
	}
}

func TestInvalidJSONResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html>not json</html>`))
	}))
	defer srv.Close()

	_, err := newTestClient(t, srv.URL).GetSensors(context.Background())
	if err == nil {
		t.Fatal("expected decode error")
	}
	if !strings.Contains(err.Error(), "decode") {
		t.Errorf("error %q does not mention decode", err)
	}
}

func ptr(f float64) *float64 { return &f }
