package console

import (
	"bytes"
	"io"
	"os"
	"strings"
	"sync"
	"testing"

	"github.com/ericogr/max14001pmb-reader/pkg/sensor"
)

func captureStdout(f func()) string {
	r, w, _ := os.Pipe()
	stdout := os.Stdout
	os.Stdout = w
	outC := make(chan string)
	go func() {
		var buf bytes.Buffer
		_, _ = io.Copy(&buf, r)
		outC <- buf.String()
	}()
	f()
	_ = w.Close()
	os.Stdout = stdout
	return <-outC
}

func TestConsolePublish(t *testing.T) {
	tests := []struct {
		reading sensor.Reading
		want    string
	}{
		{
			reading: sensor.Reading{
				Channel: sensor.ChannelSpec{Kind: sensor.Voltage, Path: "/sys/bus/iio/devices/iio:device0/in_voltage0_raw"},
				Raw:     511,
				Value:   sensor.Convert(sensor.Voltage, 511),
			},
			want: "(/sys/bus/iio/devices/iio:device0/in_voltage0_raw): Input Voltage = -0.042059 (V)\n",
		},
		{
			reading: sensor.Reading{
				Channel: sensor.ChannelSpec{Kind: sensor.Current, Path: "/sys/bus/iio/devices/iio:device1/in_voltage0_mean_raw"},
				Raw:     1536,
				Value:   12.5,
			},
			want: "(/sys/bus/iio/devices/iio:device1/in_voltage0_mean_raw): Input Current = 12.500000 (A)\n",
		},
	}
	for _, tt := range tests {
		var buf bytes.Buffer
		c := NewConsole(&buf)
		if err := c.Publish(tt.reading); err != nil {
			t.Fatalf("publish: %v", err)
		}
		if buf.String() != tt.want {
			t.Fatalf("console output mismatch:\n got: %q\nwant: %q", buf.String(), tt.want)
		}
	}
}

func TestConsoleDefaultsToStdout(t *testing.T) {
	c := NewConsole(nil)
	r := sensor.Reading{Channel: sensor.ChannelSpec{Kind: sensor.Current, Path: "p"}, Value: -6.25}
	out := captureStdout(func() { _ = c.Publish(r) })
	want := "(p): Input Current = -6.250000 (A)\n"
	if out != want {
		t.Fatalf("console output mismatch:\n got: %q\nwant: %q", out, want)
	}
}

func TestConsoleConcurrentLinesStayWhole(t *testing.T) {
	var buf bytes.Buffer
	c := NewConsole(&buf)
	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				_ = c.Publish(sensor.Reading{Channel: sensor.ChannelSpec{Kind: sensor.Voltage, Path: "v"}, Value: 1})
			}
		}()
	}
	wg.Wait()
	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	if len(lines) != 400 {
		t.Fatalf("lines: got %d want 400", len(lines))
	}
	for _, l := range lines {
		if l != "(v): Input Voltage = 1.000000 (V)" {
			t.Fatalf("torn line %q", l)
		}
	}
}
