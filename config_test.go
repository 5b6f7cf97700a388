package main

import (
	"errors"
	"os"
	"strings"
	"testing"

	"github.com/maluscro/csender/catalog"
	. "github.com/smartystreets/goconvey/convey"
)

func validConfig() *Config {
	return &Config{
		Transport:      "tcp",
		ReportInterval: 1,
		LoggingLevel:   "info",
		Hostname:       "localhost",
		Service:        "514",
		EventLength:    -1,
	}
}

func Test_Validate(t *testing.T) {
	Convey("Validate()", t, func() {
		Convey("accepts catalog mode with defaults", func() {
			So(validConfig().Validate(), ShouldBeNil)
		})

		Convey("rejects unknown transports", func() {
			config := validConfig()
			config.Transport = "sctp"

			err := config.Validate()
			So(err, ShouldNotBeNil)
			So(err.Error(), ShouldContainSubstring, "unsupported transport")
		})

		Convey("requires a target", func() {
			config := validConfig()
			config.Hostname = ""

			So(config.Validate(), ShouldNotBeNil)
		})

		Convey("rejects lengths below the smallest fitting event", func() {
			config := validConfig()
			config.EventLength = minEventLength - 1

			So(errors.Is(config.Validate(), ErrLengthTooSmall), ShouldBeTrue)
		})

		Convey("rejects zero as a length", func() {
			config := validConfig()
			config.EventLength = 0

			So(errors.Is(config.Validate(), ErrLengthTooSmall), ShouldBeTrue)
		})

		Convey("accepts the minimum and maximum lengths", func() {
			config := validConfig()

			config.EventLength = minEventLength
			So(config.Validate(), ShouldBeNil)

			config.EventLength = maxEventLength
			So(config.Validate(), ShouldBeNil)
		})

		Convey("rejects lengths above the message cap", func() {
			config := validConfig()
			config.EventLength = maxEventLength + 1

			So(errors.Is(config.Validate(), ErrLengthTooLarge), ShouldBeTrue)
		})

		Convey("rejects combined body modes", func() {
			config := validConfig()
			config.EventLength = 120
			config.RandomLength = true

			err := config.Validate()
			So(err, ShouldNotBeNil)
			So(err.Error(), ShouldContainSubstring, "mutually exclusive")
		})

		Convey("rejects a non-positive report interval", func() {
			config := validConfig()
			config.ReportInterval = 0

			So(config.Validate(), ShouldNotBeNil)
		})

		Convey("rejects a negative rate cap", func() {
			config := validConfig()
			config.MaxEventsPerSec = -1

			So(config.Validate(), ShouldNotBeNil)
		})
	})
}

func Test_BodyModeSelection(t *testing.T) {
	Convey("BodyMode()", t, func() {
		config := validConfig()

		Convey("defaults to the catalog", func() {
			So(config.BodyMode(), ShouldEqual, BodyCatalog)
		})

		Convey("selects fixed lengths when one is given", func() {
			config.EventLength = 120
			So(config.BodyMode(), ShouldEqual, BodyFixedLength)
		})

		Convey("selects random lengths on request", func() {
			config.RandomLength = true
			So(config.BodyMode(), ShouldEqual, BodyRandomLength)
		})

		Convey("selects the file feed when a file is named", func() {
			config.FeedFile = "/var/log/messages"
			So(config.BodyMode(), ShouldEqual, BodyFileFeed)
		})
	})
}

func Test_CatalogFits(t *testing.T) {
	Convey("catalogFits()", t, func() {
		Convey("accepts the built-in catalog", func() {
			So(catalogFits(catalog.Default()), ShouldBeNil)
		})

		Convey("rejects entries that can't fit the largest message", func() {
			oversized := writeTestCatalog(t, `["`+strings.Repeat("x", maxEventLength)+`"]`)

			cat, err := catalog.Load(oversized)
			So(err, ShouldBeNil)

			err = catalogFits(cat)
			So(err, ShouldNotBeNil)
			So(err.Error(), ShouldContainSubstring, "maximum body")
		})
	})
}

func writeTestCatalog(t *testing.T, contents string) string {
	catalogFile, err := os.CreateTemp("", "catalog*.json")
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.Remove(catalogFile.Name()) })

	if _, err := catalogFile.WriteString(contents); err != nil {
		t.Fatal(err)
	}

	return catalogFile.Name()
}
