package container

import "testing"

func TestParseFrameMetadataDefaults(t *testing.T) {
	fm, err := ParseFrameMetadata(nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if fm.Width != 0 || fm.ISO != 0 || fm.Orientation != 0 {
		t.Errorf("expected zero defaults, got %+v", fm)
	}
	if len(fm.LensShadingMap) != 0 {
		t.Errorf("expected nil lens shading map by default")
	}
}

func TestParseFrameMetadataPartial(t *testing.T) {
	raw := []byte(`{"width": 4000, "iso": 100, "asShotNeutral": [0.5, 1.0]}`)
	fm, err := ParseFrameMetadata(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if fm.Width != 4000 || fm.ISO != 100 {
		t.Errorf("unexpected field values: %+v", fm)
	}
	if fm.AsShotNeutral[0] != 0.5 || fm.AsShotNeutral[1] != 1.0 || fm.AsShotNeutral[2] != 0 {
		t.Errorf("partial asShotNeutral should default remaining entries to 0, got %v", fm.AsShotNeutral)
	}
	if fm.Height != 0 {
		t.Errorf("missing height should default to 0, got %d", fm.Height)
	}
}

func TestParseMetadataSensorArrangementAlias(t *testing.T) {
	raw := []byte(`{"sensorArrangment": "bggr", "whiteLevel": 1023}`)
	m, err := ParseMetadata(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if m.SensorArrangement != "bggr" {
		t.Errorf("expected misspelled alias to be tolerated, got %q", m.SensorArrangement)
	}
	if m.WhiteLevel != 1023 {
		t.Errorf("whiteLevel = %v, want 1023", m.WhiteLevel)
	}
}

func TestParseMetadataMatrixDefaultsToIdentity(t *testing.T) {
	m, err := ParseMetadata(nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := [9]float64{1, 0, 0, 0, 1, 0, 0, 0, 1}
	if m.ColorMatrix1 != want {
		t.Errorf("ColorMatrix1 = %v, want identity %v", m.ColorMatrix1, want)
	}
}

func TestParseMetadataDeviceModel(t *testing.T) {
	raw := []byte(`{"deviceSpecificProfile": {"deviceModel": "Pixel 7"}}`)
	m, err := ParseMetadata(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if m.DeviceModel != "Pixel 7" {
		t.Errorf("DeviceModel = %q, want Pixel 7", m.DeviceModel)
	}
}
