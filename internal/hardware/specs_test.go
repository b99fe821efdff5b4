package hardware

import (
	"errors"
	"testing"
)

func validSpecs() Specs {
	return Specs{
		NumQubits:     2,
		BField:        1.0,
		Delta:         0.5,
		JCoupling:     0.2,
		RotationShape: ShapeSquare,
		RampDuration:  1,
		CoeffDuration: 5,
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Specs)
		wantErr bool
	}{
		{name: "valid square", mutate: func(s *Specs) {}, wantErr: false},
		{name: "valid gaussian", mutate: func(s *Specs) { s.RotationShape = ShapeGaussian }, wantErr: false},
		{name: "zero qubits", mutate: func(s *Specs) { s.NumQubits = 0 }, wantErr: true},
		{name: "B field too low", mutate: func(s *Specs) { s.BField = 1e-4 }, wantErr: true},
		{name: "delta too low", mutate: func(s *Specs) { s.Delta = 0 }, wantErr: true},
		{name: "coupling too low", mutate: func(s *Specs) { s.JCoupling = 1e-5 }, wantErr: true},
		{name: "negative ramp", mutate: func(s *Specs) { s.RampDuration = -1 }, wantErr: true},
		{
			name: "gaussian without coeff",
			mutate: func(s *Specs) {
				s.RotationShape = ShapeGaussian
				s.CoeffDuration = 0
			},
			wantErr: true,
		},
		{name: "bad shape", mutate: func(s *Specs) { s.RotationShape = Shape(99) }, wantErr: true},
		{name: "bad decoupling", mutate: func(s *Specs) { s.Decoupling = DecouplingMode(99) }, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := validSpecs()
			tt.mutate(&s)
			err := s.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrConfiguration) {
				t.Errorf("error %v does not wrap ErrConfiguration", err)
			}
		})
	}
}

func TestParseShape(t *testing.T) {
	if s, err := ParseShape("GAUSSIAN"); err != nil || s != ShapeGaussian {
		t.Errorf("ParseShape(GAUSSIAN) = %v, %v", s, err)
	}
	if s, err := ParseShape("square"); err != nil || s != ShapeSquare {
		t.Errorf("ParseShape(square) = %v, %v", s, err)
	}
	if _, err := ParseShape("triangle"); !errors.Is(err, ErrConfiguration) {
		t.Errorf("ParseShape(triangle) error = %v, want ErrConfiguration", err)
	}
}

func TestParseDecoupling(t *testing.T) {
	tests := []struct {
		in      string
		want    DecouplingMode
		wantErr bool
	}{
		{in: "", want: DecouplingNone},
		{in: "none", want: DecouplingNone},
		{in: "spin_echo", want: DecouplingSpinEcho},
		{in: "FULL_DRIVE", want: DecouplingFullDrive},
		{in: "cpmg", wantErr: true},
	}
	for _, tt := range tests {
		got, err := ParseDecoupling(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseDecoupling(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if err == nil && got != tt.want {
			t.Errorf("ParseDecoupling(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
