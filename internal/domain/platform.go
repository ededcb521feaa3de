package domain

// Platform identifies a supported car-listing marketplace
type Platform string

const (
	PlatformDubizzle   Platform = "dubizzle"
	PlatformOpenSooq   Platform = "opensooq"
	PlatformSyarah     Platform = "syarah"
	PlatformYallaMotor Platform = "yallamotor"
	PlatformHatla2ee   Platform = "hatla2ee"
	PlatformAutoTrader Platform = "autotrader"
	PlatformCarsCom    Platform = "carscom"
	PlatformCarGurus   Platform = "cargurus"

	// PlatformUnsupported marks a URL no adapter can handle
	PlatformUnsupported Platform = "unsupported"
)

// AllPlatforms lists every marketplace with a registered adapter,
// in detector priority order.
var AllPlatforms = []Platform{
	PlatformDubizzle,
	PlatformOpenSooq,
	PlatformSyarah,
	PlatformYallaMotor,
	PlatformHatla2ee,
	PlatformAutoTrader,
	PlatformCarsCom,
	PlatformCarGurus,
}

func (p Platform) String() string {
	return string(p)
}
