package qstage

import "testing"

func TestResolveMode(t *testing.T) {
	tests := []struct {
		name    string
		req     *Request
		want    Mode
		wantErr bool
	}{
		{
			name: "script only",
			req:  &Request{Script: scriptPtr("run 10")},
			want: ModeVerbatim,
		},
		{
			name: "script wins over structured inputs",
			req: &Request{
				Script:     scriptPtr("run 10"),
				Structure:  "Fe",
				Potential:  fakePotential{style: "atomic"},
				Parameters: Parameters{},
			},
			want: ModeVerbatim,
		},
		{
			name: "empty script is still a script",
			req:  &Request{Script: scriptPtr("")},
			want: ModeVerbatim,
		},
		{
			name: "full structured trio",
			req:  generatedRequest(),
			want: ModeGenerated,
		},
		{
			name:    "missing structure",
			req:     &Request{Potential: fakePotential{}, Parameters: Parameters{}},
			wantErr: true,
		},
		{
			name:    "missing potential",
			req:     &Request{Structure: "Fe", Parameters: Parameters{}},
			wantErr: true,
		},
		{
			name:    "missing parameters",
			req:     &Request{Structure: "Fe", Potential: fakePotential{}},
			wantErr: true,
		},
		{
			name:    "nothing",
			req:     &Request{},
			wantErr: true,
		},
		{
			name:    "nil request",
			req:     nil,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ResolveMode(tt.req)
			if tt.wantErr {
				if !isValidation(err) {
					t.Fatalf("Expected validation error, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ResolveMode failed: %v", err)
			}
			if got != tt.want {
				t.Errorf("Expected mode %s, got %s", tt.want, got)
			}
		})
	}
}
