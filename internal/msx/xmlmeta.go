package msx

import (
	"encoding/xml"
	"fmt"
)

// ServoCmd mirrors the SWEEP_DATA/SERVO/cmd attribute set of the embedded
// sweep metadata.
type ServoCmd struct {
	Mode         string `xml:"mode,attr"`
	Elevation    string `xml:"elevation,attr"`
	StartAz      string `xml:"start_az,attr"`
	EndAz        string `xml:"end_az,attr"`
	AzRate       string `xml:"az_rate,attr"`
	AngleWidth   string `xml:"angle_width,attr"`
	MinElevation string `xml:"min_elevation,attr"`
	MaxElevation string `xml:"max_elevation,attr"`
}

// RSPCmd mirrors SWEEP_DATA/RSP/cmd: the signal-processor command that
// carries the PRF pair and polarization code.
type RSPCmd struct {
	Mode string `xml:"mode,attr"`
	RCR  string `xml:"rcr,attr"`
	Pol  string `xml:"pol,attr"`
	PRF  string `xml:"prf,attr"`
	DPRF string `xml:"dprf,attr"`
	Rng  string `xml:"rng,attr"`
	NPL  string `xml:"npl,attr"`
	Asyc string `xml:"asyc,attr"`
	CF   string `xml:"cf,attr"`
	SQI  string `xml:"sqi,attr"`
	CSR  string `xml:"csr,attr"`
	Log  string `xml:"log,attr"`
	Exe  string `xml:"exe,attr"`
}

// TXCmd mirrors SWEEP_DATA/TX/cmd.
type TXCmd struct {
	BT  string `xml:"BT,attr"`
	AT  string `xml:"AT,attr"`
	RAD string `xml:"RAD,attr"`
	POT string `xml:"POT,attr"`
}

// SweepMetadata is the parsed embedded-XML metadata of a sweep header.
type SweepMetadata struct {
	Servo ServoCmd
	RSP   RSPCmd
	TX    TXCmd
}

type sweepDataXML struct {
	Servo struct {
		Cmd ServoCmd `xml:"cmd"`
	} `xml:"SERVO"`
	RSP struct {
		Cmd RSPCmd `xml:"cmd"`
	} `xml:"RSP"`
	TX struct {
		Cmd TXCmd `xml:"cmd"`
	} `xml:"TX"`
}

type metadataRootXML struct {
	XMLName   xml.Name
	SweepData *sweepDataXML `xml:"SWEEP_DATA"`
}

// ParseSweepMetadata parses the fixed SWEEP_DATA attribute schema out of a
// sweep header's metadata string. The SWEEP_DATA element may be the document
// root or a child of it.
func ParseSweepMetadata(data string) (*SweepMetadata, error) {
	var root metadataRootXML
	if err := xml.Unmarshal([]byte(data), &root); err != nil {
		return nil, fmt.Errorf("msx: parsing sweep metadata: %w", err)
	}

	var sd sweepDataXML
	switch {
	case root.SweepData != nil:
		sd = *root.SweepData
	case root.XMLName.Local == "SWEEP_DATA":
		if err := xml.Unmarshal([]byte(data), &sd); err != nil {
			return nil, fmt.Errorf("msx: parsing sweep metadata: %w", err)
		}
	default:
		return nil, fmt.Errorf("msx: sweep metadata has no SWEEP_DATA element")
	}

	return &SweepMetadata{Servo: sd.Servo.Cmd, RSP: sd.RSP.Cmd, TX: sd.TX.Cmd}, nil
}
