package services

import (
	"fmt"
	"net"

	"github.com/AnshRaj112/portfolio-backend/internal/models"
	"github.com/oschwald/geoip2-golang"
)

// Locator derives a coarse location from an IP address.
// Locate returns (nil, nil) when there is nothing to report.
type Locator interface {
	Locate(ip string) (*models.Geolocation, error)
}

// GeoIPLocator reads a MaxMind GeoLite2/GeoIP2 City database.
type GeoIPLocator struct {
	reader *geoip2.Reader
}

func NewGeoIPLocator(cityDBPath string) (*GeoIPLocator, error) {
	reader, err := geoip2.Open(cityDBPath)
	if err != nil {
		return nil, fmt.Errorf("open geoip database: %w", err)
	}
	return &GeoIPLocator{reader: reader}, nil
}

func (g *GeoIPLocator) Locate(ipAddress string) (*models.Geolocation, error) {
	ip := net.ParseIP(ipAddress)
	if ip == nil {
		return nil, fmt.Errorf("invalid ip address: %q", ipAddress)
	}
	if ip.IsLoopback() || ip.IsPrivate() || ip.IsUnspecified() {
		return nil, nil
	}

	record, err := g.reader.City(ip)
	if err != nil {
		return nil, err
	}
	if record.Country.IsoCode == "" && record.City.GeoNameID == 0 {
		return nil, nil
	}

	geo := &models.Geolocation{
		City:        record.City.Names["en"],
		Country:     record.Country.Names["en"],
		CountryCode: record.Country.IsoCode,
		Timezone:    record.Location.TimeZone,
	}
	if len(record.Subdivisions) > 0 {
		geo.Region = record.Subdivisions[0].Names["en"]
	}
	return geo, nil
}

func (g *GeoIPLocator) Close() error {
	if g.reader != nil {
		return g.reader.Close()
	}
	return nil
}
