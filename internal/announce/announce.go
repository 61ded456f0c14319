// Package announce works out the address other devices on the LAN should use
// to reach the server and prints it, together with a QR code, at startup.
package announce

import (
	"errors"
	"fmt"
	"io"
	"lanupload/internal/logging"
	"net"
	"strconv"

	"github.com/jackpal/gateway"
	"github.com/mdp/qrterminal/v3"
)

// Warning is printed under the URL on every start.
const Warning = "This is an unsecured connection. Don't send sensitive information - don't use on public WiFi!"

// Half-block glyphs for the QR code.
const (
	blackWhite = "\u2584"
	blackBlack = " "
	whiteBlack = "\u2580"
	whiteWhite = "\u2588"
)

var errNoLANAddress = errors.New("no local IPv4 address in the gateway subnet")

// Replaced in tests.
var (
	discoverGateway = gateway.DiscoverGateway
	interfaceAddrs  = upInterfaceAddrs
)

// Options controls what gets announced.
type Options struct {
	BindHost   string // host the server listens on
	Port       int
	PublicHost string // overrides discovery when set
	QRCode     bool
}

// ResolveHost picks the host name advertised to clients: the configured
// public host, else a specific bind address, else the LAN address facing the
// default gateway. It falls back to "localhost" when nothing else works.
func ResolveHost(publicHost, bindHost string) string {
	if publicHost != "" {
		return publicHost
	}
	if ip := net.ParseIP(bindHost); ip != nil && !ip.IsUnspecified() {
		return bindHost
	}
	if bindHost != "" && net.ParseIP(bindHost) == nil {
		return bindHost
	}

	ip, err := LocalIP()
	if err != nil {
		logging.Log.Warnf("Could not determine LAN address, announcing localhost: %v", err)
		return "localhost"
	}
	return ip.String()
}

// LocalIP returns the IPv4 address of the interface that shares a subnet with
// the default gateway.
func LocalIP() (net.IP, error) {
	gw, err := discoverGateway()
	if err != nil {
		return nil, fmt.Errorf("failed to discover gateway: %w", err)
	}
	addrs, err := interfaceAddrs()
	if err != nil {
		return nil, fmt.Errorf("failed to list interface addresses: %w", err)
	}
	return ipForGateway(gw, addrs)
}

func ipForGateway(gw net.IP, addrs []net.Addr) (net.IP, error) {
	for _, addr := range addrs {
		ipnet, ok := addr.(*net.IPNet)
		if !ok {
			continue
		}
		ipv4 := ipnet.IP.To4()
		if ipv4 == nil || !ipv4.IsGlobalUnicast() || ipv4.IsLoopback() {
			continue
		}
		if ipnet.Contains(gw) {
			return ipv4, nil
		}
	}
	return nil, fmt.Errorf("%w %s", errNoLANAddress, gw)
}

func upInterfaceAddrs() ([]net.Addr, error) {
	interfaces, err := net.Interfaces()
	if err != nil {
		return nil, err
	}
	var out []net.Addr
	for _, iface := range interfaces {
		if iface.Flags&net.FlagUp == 0 {
			continue
		}
		addrs, err := iface.Addrs()
		if err != nil {
			logging.Log.Debugf("Skipping interface %s: %v", iface.Name, err)
			continue
		}
		out = append(out, addrs...)
	}
	return out, nil
}

// UploadURL builds the page URL for host and port.
func UploadURL(host string, port int) string {
	return "http://" + net.JoinHostPort(host, strconv.Itoa(port)) + "/"
}

// URL resolves the advertised host for opts and returns the page URL.
func URL(opts Options) string {
	return UploadURL(ResolveHost(opts.PublicHost, opts.BindHost), opts.Port)
}

// Print writes the startup banner for url to w.
func Print(w io.Writer, url string, qr bool) {
	fmt.Fprintf(w, "\nServing uploads at %s\n", url)
	fmt.Fprintln(w, Warning)
	if !qr {
		return
	}
	fmt.Fprintln(w, "\nScan to open the upload page:")
	qrterminal.GenerateWithConfig(url, qrterminal.Config{
		Level:          qrterminal.M,
		Writer:         w,
		HalfBlocks:     true,
		BlackChar:      blackBlack,
		WhiteBlackChar: whiteBlack,
		WhiteChar:      whiteWhite,
		BlackWhiteChar: blackWhite,
		QuietZone:      1,
	})
}

// Announce resolves the page URL for opts, prints the banner to w and
// returns the URL.
func Announce(w io.Writer, opts Options) string {
	url := URL(opts)
	Print(w, url, opts.QRCode)
	return url
}
