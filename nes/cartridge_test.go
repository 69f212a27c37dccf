package nes

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// imageSpec assembles iNES images for tests, byte by byte, so each
// case can bend exactly one thing.
type imageSpec struct {
	magic    []byte
	prgBanks byte
	chrBanks byte
	ctrl1    byte
	ctrl2    byte
	trainer  []byte
	prg      []byte // replaces the generated PRG payload
	truncate int    // bytes cut from the tail
}

func (s imageSpec) build() []byte {
	magic := s.magic
	if magic == nil {
		magic = []byte("NES\x1a")
	}

	img := append([]byte{}, magic...)
	img = append(img, s.prgBanks, s.chrBanks, s.ctrl1, s.ctrl2)
	img = append(img, make([]byte, 8)...)
	img = append(img, s.trainer...)

	prg := s.prg
	if prg == nil {
		prg = make([]byte, int(s.prgBanks)*prgBankLen)
	}
	img = append(img, prg...)
	img = append(img, make([]byte, int(s.chrBanks)*chrBankLen)...)

	if s.truncate > 0 {
		img = img[:len(img)-s.truncate]
	}
	return img
}

func TestLoadROM(t *testing.T) {
	tests := []struct {
		name    string
		image   []byte
		wantErr error
	}{
		{
			name:    "empty",
			image:   []byte{},
			wantErr: ErrInvalidImage,
		},
		{
			name:    "short header",
			image:   []byte{'N', 'E', 'S', 0x1A, 0, 0, 0, 0, 0, 0},
			wantErr: ErrInvalidImage,
		},
		{
			name:    "bad magic",
			image:   imageSpec{magic: []byte("NOS\x1a"), prgBanks: 1}.build(),
			wantErr: ErrInvalidImage,
		},
		{
			name:    "bad magic terminator",
			image:   imageSpec{magic: []byte("NES "), prgBanks: 1}.build(),
			wantErr: ErrInvalidImage,
		},
		{
			name:    "nes 2.0",
			image:   imageSpec{prgBanks: 1, ctrl2: 0x08}.build(),
			wantErr: ErrUnsupportedVersion,
		},
		{
			name:    "no prg banks",
			image:   imageSpec{prgBanks: 0, chrBanks: 1}.build(),
			wantErr: ErrInvalidImage,
		},
		{
			name:    "short prg payload",
			image:   imageSpec{prgBanks: 2, truncate: 100}.build(),
			wantErr: ErrInvalidImage,
		},
		{
			name:    "short chr payload",
			image:   imageSpec{prgBanks: 1, chrBanks: 1, truncate: 100}.build(),
			wantErr: ErrInvalidImage,
		},
		{
			name:  "minimal mapper 0",
			image: imageSpec{prgBanks: 1}.build(),
		},
		{
			name:  "two prg banks",
			image: imageSpec{prgBanks: 2, chrBanks: 1}.build(),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cart, err := NewCartridge(tt.image)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, cart)
				return
			}
			require.NoError(t, err)
			require.NotNil(t, cart)
			assert.EqualValues(t, 0, cart.Mapper)
		})
	}
}

func TestLoadROMUnsupportedMapper(t *testing.T) {
	tests := []struct {
		name       string
		ctrl1      byte
		ctrl2      byte
		wantMapper byte
	}{
		{name: "low nibble", ctrl1: 0x10, wantMapper: 1},
		{name: "high nibble", ctrl2: 0x40, wantMapper: 64},
		{name: "both nibbles", ctrl1: 0xA0, ctrl2: 0x40, wantMapper: 74},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			img := imageSpec{prgBanks: 1, ctrl1: tt.ctrl1, ctrl2: tt.ctrl2}.build()
			_, err := NewCartridge(img)

			var mapperErr UnsupportedMapperError
			require.ErrorAs(t, err, &mapperErr)
			assert.Equal(t, tt.wantMapper, byte(mapperErr))
		})
	}
}

func TestLoadROMMirroring(t *testing.T) {
	tests := []struct {
		name  string
		ctrl1 byte
		want  Mirroring
	}{
		{name: "horizontal", ctrl1: 0x00, want: Horizontal},
		{name: "vertical", ctrl1: 0x01, want: Vertical},
		{name: "four screen", ctrl1: 0x08, want: FourScreen},
		{name: "four screen wins over vertical", ctrl1: 0x09, want: FourScreen},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cart, err := NewCartridge(imageSpec{prgBanks: 1, ctrl1: tt.ctrl1}.build())
			require.NoError(t, err)
			assert.Equal(t, tt.want, cart.Mirror)
		})
	}
}

func TestLoadROMTrainerSkipped(t *testing.T) {
	prg := make([]byte, prgBankLen)
	prg[0] = 0xAA

	trainer := make([]byte, trainerLen)
	for i := range trainer {
		trainer[i] = 0xFF
	}

	cart, err := NewCartridge(imageSpec{
		prgBanks: 1,
		ctrl1:    ctrl1Trainer,
		trainer:  trainer,
		prg:      prg,
	}.build())
	require.NoError(t, err)

	assert.Len(t, cart.PRG, prgBankLen)
	assert.EqualValues(t, 0xAA, cart.PRG[0], "PRG must start after the trainer")
}

func TestLoadROMSizes(t *testing.T) {
	cart, err := NewCartridge(imageSpec{prgBanks: 2, chrBanks: 1}.build())
	require.NoError(t, err)
	assert.Len(t, cart.PRG, 2*prgBankLen)
	assert.Len(t, cart.CHR, chrBankLen)

	// No CHR-ROM banks means the board has CHR RAM.
	cart, err = NewCartridge(imageSpec{prgBanks: 1}.build())
	require.NoError(t, err)
	assert.Len(t, cart.CHR, chrBankLen)
}
