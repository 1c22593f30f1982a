package storage

import "testing"

func TestKeyFromURL(t *testing.T) {
	s := &S3Store{publicBaseURL: "https://bucket.s3.us-east-1.amazonaws.com"}

	tests := []struct {
		name    string
		url     string
		want    string
		wantErr bool
	}{
		{
			"valid url",
			"https://bucket.s3.us-east-1.amazonaws.com/company-logos/u1/logo_1.png",
			"company-logos/u1/logo_1.png",
			false,
		},
		{
			"wrong host",
			"https://other.example.com/company-logos/u1/logo_1.png",
			"", true,
		},
		{"base url only", "https://bucket.s3.us-east-1.amazonaws.com/", "", true},
		{"empty", "", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := s.KeyFromURL(tt.url)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("KeyFromURL(%q) succeeded with %q", tt.url, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("KeyFromURL: %v", err)
			}
			if got != tt.want {
				t.Errorf("key = %q, want %q", got, tt.want)
			}
		})
	}
}
