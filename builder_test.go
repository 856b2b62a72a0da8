package chromatch_test

import (
	"context"
	"testing"

	"github.com/chromatch/chromatch"
	"github.com/chromatch/chromatch/imaging"
	"github.com/chromatch/chromatch/metric"
	"github.com/chromatch/chromatch/testutil"
)

func TestBuilder_HSV_Basic(t *testing.T) {
	c, err := chromatch.HSV().Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	ctx := context.Background()
	if err := c.AddModel(ctx, testutil.SolidFrame(8, 8, 0, 0, 255), "red"); err != nil {
		t.Fatalf("AddModel failed: %v", err)
	}

	scores, err := c.CompareAll(ctx, testutil.SolidFrame(8, 8, 0, 0, 255), metric.MetricIntersection)
	if err != nil {
		t.Fatalf("CompareAll failed: %v", err)
	}

	if len(scores) != 1 || scores[0] != 1.0 {
		t.Errorf("expected perfect self match, got %v", scores)
	}
}

func TestBuilder_HSV_FullOptions(t *testing.T) {
	collector := &chromatch.BasicMetricsCollector{}

	c, err := chromatch.HSV().
		Channels(0, 1).
		Bins(8, 8).
		Ranges(0, 256, 0, 256).
		Metrics(collector).
		Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	ctx := context.Background()
	if err := c.AddModel(ctx, testutil.SolidFrame(8, 8, 255, 0, 0), "blue"); err != nil {
		t.Fatalf("AddModel failed: %v", err)
	}

	if got := collector.GetStats().AddModelCount; got != 1 {
		t.Errorf("expected 1 recorded add, got %d", got)
	}
}

func TestBuilder_Gray_Basic(t *testing.T) {
	c, err := chromatch.Gray().Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	ctx := context.Background()
	frames := []*imaging.Frame{
		testutil.SolidFrame(8, 8, 0, 0, 0),
		testutil.SolidFrame(8, 8, 255, 255, 255),
	}
	for i, name := range []string{"dark", "bright"} {
		if err := c.AddModel(ctx, frames[i], name); err != nil {
			t.Fatalf("AddModel failed: %v", err)
		}
	}

	name, err := c.BestMatchName(ctx, testutil.SolidFrame(8, 8, 250, 250, 250), metric.MetricIntersection)
	if err != nil {
		t.Fatalf("BestMatchName failed: %v", err)
	}

	if name != "bright" {
		t.Errorf("expected 'bright', got %q", name)
	}
}

func TestBuilder_Models(t *testing.T) {
	frames := []*imaging.Frame{
		testutil.SolidFrame(8, 8, 0, 0, 255),
		testutil.SolidFrame(8, 8, 0, 255, 0),
	}

	c, err := chromatch.BGR().
		Models(frames, []string{"red", "green"}).
		Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	if c.Size() != 2 {
		t.Errorf("expected 2 models, got %d", c.Size())
	}

	names := c.Names()
	if len(names) != 2 || names[0] != "red" || names[1] != "green" {
		t.Errorf("unexpected names: %v", names)
	}
}

func TestBuilder_RGB_Basic(t *testing.T) {
	c, err := chromatch.RGB().Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	ctx := context.Background()
	if err := c.AddModel(ctx, testutil.SolidFrame(8, 8, 10, 20, 30), ""); err != nil {
		t.Fatalf("AddModel failed: %v", err)
	}

	if got := c.Names(); len(got) != 1 || got[0] != "0" {
		t.Errorf("expected default name \"0\", got %v", got)
	}
}

func TestBuilder_MustBuild_Panics(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Error("expected MustBuild to panic on invalid config")
		}
	}()

	// Zero bins should cause panic
	_ = chromatch.HSV().
		Bins(0, 0, 0).
		MustBuild()
}
