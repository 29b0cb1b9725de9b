package gcs

import "testing"

func TestParseURI(t *testing.T) {
	tests := []struct {
		name       string
		uri        string
		wantBucket string
		wantObject string
		wantErr    bool
	}{
		{name: "nested object", uri: "gs://ledgers/clients/client-1.yaml", wantBucket: "ledgers", wantObject: "clients/client-1.yaml"},
		{name: "top-level object", uri: "gs://ledgers/all.json", wantBucket: "ledgers", wantObject: "all.json"},
		{name: "missing scheme", uri: "ledgers/all.json", wantErr: true},
		{name: "bucket only", uri: "gs://ledgers", wantErr: true},
		{name: "empty object", uri: "gs://ledgers/", wantErr: true},
		{name: "empty bucket", uri: "gs:///all.json", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bucket, object, err := ParseURI(tt.uri)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseURI(%q) error = %v, wantErr %v", tt.uri, err, tt.wantErr)
			}
			if bucket != tt.wantBucket || object != tt.wantObject {
				t.Errorf("ParseURI(%q) = (%q, %q), want (%q, %q)", tt.uri, bucket, object, tt.wantBucket, tt.wantObject)
			}
		})
	}
}

func TestFilename(t *testing.T) {
	tests := map[string]string{
		"gs://bucket/ledgers/client-1.yaml": "client-1.yaml",
		"gs://bucket/file.json":             "file.json",
		"gs://bucket":                       "bucket",
	}
	for uri, want := range tests {
		if got := Filename(uri); got != want {
			t.Errorf("Filename(%q) = %q, want %q", uri, got, want)
		}
	}
}

func TestContentType(t *testing.T) {
	tests := map[string]string{
		"a/b.json": "application/json",
		"a/b.YAML": "application/yaml",
		"a/b.yml":  "application/yaml",
		"a/b.txt":  "application/octet-stream",
	}
	for object, want := range tests {
		if got := contentType(object); got != want {
			t.Errorf("contentType(%q) = %q, want %q", object, got, want)
		}
	}
}
