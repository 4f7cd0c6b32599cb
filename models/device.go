package models

// Device holds SNMP credentials, either from the command line or from a
// LibreNMS style devices table.
type Device struct {
	DeviceID   int32   `db:"device_id" json:"device_id"`
	Hostname   *string `db:"hostname" json:"hostname"`
	Community  *string `db:"community" json:"community"`
	AuthLevel  *string `db:"authlevel" json:"authlevel"`
	AuthName   *string `db:"authname" json:"authname"`
	AuthPass   *string `db:"authpass" json:"authpass"`
	AuthAlgo   *string `db:"authalgo" json:"authalgo"`
	CryptoPass *string `db:"cryptopass" json:"cryptopass"`
	CryptoAlgo *string `db:"cryptoalgo" json:"cryptoalgo"`
	SnmpVer    *string `db:"snmpver" json:"snmpver"`
	Port       int     `db:"port" json:"port"`
	Transport  *string `db:"transport" json:"transport"`
}

// Merge fills the fields d left empty from other. Values already set on d win.
func (d *Device) Merge(other *Device) {
	if other == nil {
		return
	}
	fill := func(dst **string, src *string) {
		if (*dst == nil || **dst == "") && src != nil && *src != "" {
			v := *src
			*dst = &v
		}
	}
	fill(&d.Hostname, other.Hostname)
	fill(&d.Community, other.Community)
	fill(&d.AuthLevel, other.AuthLevel)
	fill(&d.AuthName, other.AuthName)
	fill(&d.AuthPass, other.AuthPass)
	fill(&d.AuthAlgo, other.AuthAlgo)
	fill(&d.CryptoPass, other.CryptoPass)
	fill(&d.CryptoAlgo, other.CryptoAlgo)
	fill(&d.SnmpVer, other.SnmpVer)
	fill(&d.Transport, other.Transport)
	if d.Port == 0 {
		d.Port = other.Port
	}
	if d.DeviceID == 0 {
		d.DeviceID = other.DeviceID
	}
}

// StringPtr returns nil for empty strings.
func StringPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func StringValue(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
