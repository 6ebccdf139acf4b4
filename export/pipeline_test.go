package export

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"os"
	"testing"

	"github.com/assetpick/assetpick/selection"
	"github.com/assetpick/assetpick/source"
)

// encodePNG builds an encoded solid-color fixture.
func encodePNG(t *testing.T, w, h int, c color.RGBA) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, c)
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("failed to encode fixture: %v", err)
	}
	return buf.Bytes()
}

// fakeOpener serves encoded bytes by asset ID. If cancelAt >= 0, the
// opener cancels the session context on that call (0-based) and
// reports the context error, imitating a ctx-aware platform source
// observing cancellation mid-open.
type fakeOpener struct {
	data     map[string][]byte
	calls    int
	cancelAt int
	cancel   context.CancelFunc
}

func (f *fakeOpener) Open(ctx context.Context, asset source.Asset) (io.ReadCloser, error) {
	call := f.calls
	f.calls++

	if f.cancel != nil && call == f.cancelAt {
		f.cancel()
		return nil, ctx.Err()
	}

	b, ok := f.data[asset.ID]
	if !ok {
		return nil, fmt.Errorf("no such asset %s", asset.ID)
	}
	return io.NopCloser(bytes.NewReader(b)), nil
}

// memSink collects writes in memory.
type memSink struct {
	names []string
	fail  bool
}

func (m *memSink) Write(ctx context.Context, name string, r io.Reader) (string, error) {
	if m.fail {
		return "", fmt.Errorf("sink is full")
	}
	if _, err := io.Copy(io.Discard, r); err != nil {
		return "", err
	}
	m.names = append(m.names, name)
	return "mem://" + name, nil
}

func entriesFor(ids ...string) []selection.Entry {
	out := make([]selection.Entry, len(ids))
	for i, id := range ids {
		out[i] = selection.Entry{
			Asset:  source.Asset{ID: id, Type: source.MediaImage},
			Params: selection.DefaultCropParams(),
			Order:  i,
		}
	}
	return out
}

func collect(ch <-chan Result) []Result {
	var out []Result
	for r := range ch {
		out = append(out, r)
	}
	return out
}

func TestExport_OrderedSuccess(t *testing.T) {
	opener := &fakeOpener{cancelAt: -1, data: map[string][]byte{
		"a": encodePNG(t, 40, 20, color.RGBA{255, 0, 0, 255}),
		"b": encodePNG(t, 20, 40, color.RGBA{0, 255, 0, 255}),
		"c": encodePNG(t, 30, 30, color.RGBA{0, 0, 255, 255}),
	}}
	sink := &memSink{}
	cfg := selection.CropConfig{PreferredOutputSize: 50, AspectRatios: []float64{1.0}}

	results := collect(NewExporter(opener, cfg, sink, nil).Export(context.Background(), entriesFor("a", "b", "c")))

	if len(results) != 3 {
		t.Fatalf("results: got %d, want 3", len(results))
	}
	for i, want := range []string{"a", "b", "c"} {
		if results[i].Asset.ID != want {
			t.Errorf("result %d: got asset %s, want %s", i, results[i].Asset.ID, want)
		}
		if results[i].Failed() {
			t.Errorf("result %d failed: %v", i, results[i].Err)
		}
		if results[i].Location == "" {
			t.Errorf("result %d has no location", i)
		}
	}
}

func TestExport_OutputDimensions(t *testing.T) {
	dir := t.TempDir()
	sink, err := NewDirSink(dir)
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name         string
		srcW, srcH   int
		params       func() selection.CropParams
		output       float64
		wantW, wantH int
	}{
		{
			name: "full image landscape",
			srcW: 40, srcH: 20,
			params: selection.DefaultCropParams,
			output: 50, wantW: 50, wantH: 25,
		},
		{
			name: "scale halves target",
			srcW: 40, srcH: 20,
			params: func() selection.CropParams {
				p := selection.DefaultCropParams()
				p.Scale = 2
				return p
			},
			output: 100, wantW: 50, wantH: 25,
		},
		{
			name: "rotation swaps edges",
			srcW: 40, srcH: 20,
			params: func() selection.CropParams {
				p := selection.DefaultCropParams()
				p.Rotation = selection.Rotate90
				return p
			},
			output: 40, wantW: 20, wantH: 40,
		},
		{
			name: "half-width crop",
			srcW: 40, srcH: 20,
			params: func() selection.CropParams {
				p := selection.DefaultCropParams()
				p.Rect = selection.Rect{X: 0, Y: 0, W: 0.5, H: 1}
				return p
			},
			output: 20, wantW: 20, wantH: 20,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opener := &fakeOpener{cancelAt: -1, data: map[string][]byte{
				"a": encodePNG(t, tt.srcW, tt.srcH, color.RGBA{120, 40, 200, 255}),
			}}
			cfg := selection.CropConfig{PreferredOutputSize: tt.output, AspectRatios: []float64{1.0}}

			entries := entriesFor("a")
			entries[0].Params = tt.params()

			results := collect(NewExporter(opener, cfg, sink, nil).Export(context.Background(), entries))
			if len(results) != 1 {
				t.Fatalf("results: got %d, want 1", len(results))
			}
			if results[0].Failed() {
				t.Fatalf("export failed: %v", results[0].Err)
			}

			f, err := os.Open(results[0].Location)
			if err != nil {
				t.Fatalf("failed to open output: %v", err)
			}
			defer f.Close()
			img, _, err := image.Decode(f)
			if err != nil {
				t.Fatalf("failed to decode output: %v", err)
			}
			if img.Bounds().Dx() != tt.wantW || img.Bounds().Dy() != tt.wantH {
				t.Errorf("output: got %dx%d, want %dx%d",
					img.Bounds().Dx(), img.Bounds().Dy(), tt.wantW, tt.wantH)
			}
		})
	}
}

func TestExport_FailureDoesNotAbortStream(t *testing.T) {
	good := encodePNG(t, 20, 20, color.RGBA{255, 255, 0, 255})
	opener := &fakeOpener{cancelAt: -1, data: map[string][]byte{
		"a": good,
		"b": good,
		"c": []byte("definitely not an image"),
		"d": good,
		"e": good,
	}}
	cfg := selection.CropConfig{PreferredOutputSize: 20, AspectRatios: []float64{1.0}}

	results := collect(NewExporter(opener, cfg, &memSink{}, nil).Export(context.Background(), entriesFor("a", "b", "c", "d", "e")))

	if len(results) != 5 {
		t.Fatalf("results: got %d, want 5", len(results))
	}
	for i, r := range results {
		if i == 2 {
			if !r.Failed() {
				t.Error("result 2 should have failed")
			}
			if r.Kind != KindDecode {
				t.Errorf("result 2 kind: got %v, want decode", r.Kind)
			}
			if r.Location != "" {
				t.Error("failed result should have no location")
			}
			continue
		}
		if r.Failed() {
			t.Errorf("result %d failed: %v", i, r.Err)
		}
	}
}

func TestExport_MissingAssetIsIOFailure(t *testing.T) {
	opener := &fakeOpener{cancelAt: -1, data: map[string][]byte{}}
	cfg := selection.CropConfig{PreferredOutputSize: 20, AspectRatios: []float64{1.0}}

	results := collect(NewExporter(opener, cfg, &memSink{}, nil).Export(context.Background(), entriesFor("ghost")))

	if len(results) != 1 || !results[0].Failed() {
		t.Fatalf("want a single failure, got %+v", results)
	}
	if results[0].Kind != KindIO {
		t.Errorf("kind: got %v, want io", results[0].Kind)
	}
}

func TestExport_SinkFailureIsIOFailure(t *testing.T) {
	opener := &fakeOpener{cancelAt: -1, data: map[string][]byte{
		"a": encodePNG(t, 20, 20, color.RGBA{1, 2, 3, 255}),
	}}
	cfg := selection.CropConfig{PreferredOutputSize: 20, AspectRatios: []float64{1.0}}

	results := collect(NewExporter(opener, cfg, &memSink{fail: true}, nil).Export(context.Background(), entriesFor("a")))

	if len(results) != 1 || results[0].Kind != KindIO {
		t.Fatalf("want one io failure, got %+v", results)
	}
}

func TestExport_CancellationStopsScheduling(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	good := encodePNG(t, 20, 20, color.RGBA{9, 9, 9, 255})
	opener := &fakeOpener{
		data: map[string][]byte{
			"a": good, "b": good, "c": good, "d": good,
			"e": good, "f": good, "g": good,
		},
		// The source observes cancellation while opening the 4th
		// asset: 3 results are already out, nothing further emits.
		cancelAt: 3,
		cancel:   cancel,
	}
	cfg := selection.CropConfig{PreferredOutputSize: 20, AspectRatios: []float64{1.0}}

	results := collect(NewExporter(opener, cfg, &memSink{}, nil).Export(ctx, entriesFor("a", "b", "c", "d", "e", "f", "g")))

	if len(results) != 3 {
		t.Fatalf("results after cancel: got %d, want 3", len(results))
	}
	for i, r := range results {
		if r.Failed() {
			t.Errorf("result %d failed: %v", i, r.Err)
		}
	}

	// No further entries were scheduled.
	if opener.calls != 4 {
		t.Errorf("source opens: got %d, want 4", opener.calls)
	}

	// Repeated cancellation is idempotent.
	cancel()
	cancel()
}

func TestExport_CancelledBeforeStart(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	opener := &fakeOpener{cancelAt: -1, data: map[string][]byte{
		"a": encodePNG(t, 20, 20, color.RGBA{9, 9, 9, 255}),
	}}
	cfg := selection.CropConfig{PreferredOutputSize: 20, AspectRatios: []float64{1.0}}

	results := collect(NewExporter(opener, cfg, &memSink{}, nil).Export(ctx, entriesFor("a")))
	if len(results) != 0 {
		t.Errorf("results: got %d, want 0", len(results))
	}
}

func TestExport_EmptySnapshot(t *testing.T) {
	cfg := selection.DefaultCropConfig()
	results := collect(NewExporter(&fakeOpener{cancelAt: -1}, cfg, &memSink{}, nil).Export(context.Background(), nil))
	if len(results) != 0 {
		t.Errorf("results: got %d, want 0", len(results))
	}
}

func TestKind_String(t *testing.T) {
	tests := []struct {
		kind Kind
		want string
	}{
		{KindNone, "none"},
		{KindDecode, "decode"},
		{KindEncode, "encode"},
		{KindIO, "io"},
	}
	for _, tt := range tests {
		if got := tt.kind.String(); got != tt.want {
			t.Errorf("String(%d): got %s, want %s", int(tt.kind), got, tt.want)
		}
	}
}
