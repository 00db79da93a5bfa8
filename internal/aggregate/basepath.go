package aggregate

import (
	"fmt"
	"net/netip"
	"net/url"
	"strconv"
	"strings"

	"golang.org/x/net/idna"
)

// specialSchemes always have a host, and their hosts are domains that get
// lowercased and converted to punycode. file is special but may omit the host.
var specialSchemes = map[string]bool{
	"http":  true,
	"https": true,
	"ws":    true,
	"wss":   true,
	"ftp":   true,
	"file":  true,
}

// hostProfile maps hosts the way browsers do: case folded, IDNA
// nontransitional, underscores and leading hyphens allowed.
var hostProfile = idna.New(
	idna.MapForLookup(),
	idna.Transitional(false),
	idna.StrictDomainName(false),
	idna.CheckHyphens(false),
)

// forbiddenHostChars may not appear in a domain once it is decoded.
const forbiddenHostChars = " #%/:<>?@[\\]^|"

// BasePath returns scheme://hostname for an absolute URL. Port, userinfo,
// path, query and fragment are dropped. Hosts of web schemes are lowercased
// and punycoded, so http://A.com/x and http://a.com/y share a domain.
func BasePath(raw string) (string, error) {
	s := strings.TrimFunc(raw, func(r rune) bool { return r <= ' ' })
	s = strings.NewReplacer("\t", "", "\n", "", "\r", "").Replace(s)

	scheme, rest, ok := splitScheme(s)
	if !ok {
		return "", fmt.Errorf("%w: %q: missing scheme", ErrInvalidURL, raw)
	}

	var host string
	var err error
	switch {
	case scheme == "file":
		host, err = fileHost(rest)
	case specialSchemes[scheme]:
		host, err = specialHost(strings.TrimLeft(rest, `/\`))
	case strings.HasPrefix(rest, "//"):
		host, err = opaqueHost(rest[2:])
	}
	if err != nil {
		return "", fmt.Errorf("%w: %q: %v", ErrInvalidURL, raw, err)
	}

	return scheme + "://" + host, nil
}

// splitScheme cuts a leading scheme and its colon off s. The scheme is
// returned lowercased.
func splitScheme(s string) (scheme, rest string, ok bool) {
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z':
		case i > 0 && ('0' <= c && c <= '9' || c == '+' || c == '-' || c == '.'):
		case i > 0 && c == ':':
			return strings.ToLower(s[:i]), s[i+1:], true
		default:
			return "", "", false
		}
	}
	return "", "", false
}

func isSlash(c byte) bool { return c == '/' || c == '\\' }

// authority returns the host[:port] part of s, which starts right after
// the slashes following the scheme.
func authority(s string, special bool) string {
	stop := "/?#"
	if special {
		stop = `/\?#`
	}
	if i := strings.IndexAny(s, stop); i >= 0 {
		s = s[:i]
	}
	if i := strings.LastIndexByte(s, '@'); i >= 0 {
		s = s[i+1:]
	}
	return s
}

// splitPort separates host from an optional numeric port.
func splitPort(hostport string) (string, error) {
	host, port := hostport, ""
	if strings.HasPrefix(hostport, "[") {
		end := strings.IndexByte(hostport, ']')
		if end < 0 {
			return "", fmt.Errorf("unclosed IPv6 address")
		}
		host, port = hostport[:end+1], hostport[end+1:]
		if port != "" && port[0] != ':' {
			return "", fmt.Errorf("junk after IPv6 address")
		}
		port = strings.TrimPrefix(port, ":")
	} else if i := strings.IndexByte(hostport, ':'); i >= 0 {
		host, port = hostport[:i], hostport[i+1:]
	}

	if port != "" {
		n, err := strconv.ParseUint(port, 10, 16)
		if err != nil || n > 65535 {
			return "", fmt.Errorf("bad port %q", port)
		}
	}
	return host, nil
}

func specialHost(rest string) (string, error) {
	host, err := splitPort(authority(rest, true))
	if err != nil {
		return "", err
	}
	if host == "" {
		return "", fmt.Errorf("missing host")
	}
	return domain(host)
}

// fileHost reads the host of a file URL; file:///path has an empty one.
func fileHost(rest string) (string, error) {
	if len(rest) < 2 || !isSlash(rest[0]) || !isSlash(rest[1]) {
		return "", nil
	}
	host, err := splitPort(authority(rest[2:], true))
	if err != nil || host == "" {
		return "", err
	}
	host, err = domain(host)
	if host == "localhost" {
		host = ""
	}
	return host, err
}

// opaqueHost keeps the host of a non-web scheme as written.
func opaqueHost(rest string) (string, error) {
	host, err := splitPort(authority(rest, false))
	if err != nil {
		return "", err
	}
	if strings.HasPrefix(host, "[") {
		return ipv6(host)
	}
	if strings.ContainsAny(host, " <>^|") {
		return "", fmt.Errorf("forbidden character in host %q", host)
	}
	return host, nil
}

// domain percent-decodes host, then maps it to its ASCII form.
func domain(host string) (string, error) {
	if strings.HasPrefix(host, "[") {
		return ipv6(host)
	}

	decoded, err := url.PathUnescape(host)
	if err != nil {
		decoded = host
	}
	ascii, err := hostProfile.ToASCII(decoded)
	if err != nil {
		return "", fmt.Errorf("host %q: %v", host, err)
	}
	if ascii == "" || strings.ContainsAny(ascii, forbiddenHostChars) {
		return "", fmt.Errorf("forbidden character in host %q", host)
	}
	for _, r := range ascii {
		if r < ' ' || r == 0x7f {
			return "", fmt.Errorf("control character in host %q", host)
		}
	}
	return strings.ToLower(ascii), nil
}

// ipv6 validates a bracketed IPv6 literal and returns it in canonical form.
func ipv6(host string) (string, error) {
	addr, err := netip.ParseAddr(strings.TrimSuffix(strings.TrimPrefix(host, "["), "]"))
	if err != nil || !addr.Is6() || addr.Zone() != "" {
		return "", fmt.Errorf("bad IPv6 address %q", host)
	}
	return "[" + addr.String() + "]", nil
}
