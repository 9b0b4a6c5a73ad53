// Package signature проверяет подпись вебхуков Notion (X-Notion-Signature: sha256=<hex>).
package signature

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"math"
	"strconv"
	"strings"
)

const (
	// Header: заголовок, в котором Notion присылает подпись.
	Header = "X-Notion-Signature"
	prefix = "sha256="
)

// Canonicalize разбирает тело как JSON и сериализует его заново без пробелов,
// сохраняя порядок ключей. Строки и числа пишутся в одной форме независимо от
// того, как их закодировал отправитель: "\u00e9" и "é", "\/" и "/", 1.0 и 1
// дают одинаковый результат.
func Canonicalize(body []byte) ([]byte, bool) {
	if !json.Valid(body) {
		return nil, false
	}
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()

	var buf bytes.Buffer
	if err := writeValue(dec, &buf); err != nil {
		return nil, false
	}
	return buf.Bytes(), true
}

var errUnexpectedToken = errors.New("signature: unexpected json token")

func writeValue(dec *json.Decoder, buf *bytes.Buffer) error {
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	switch v := tok.(type) {
	case json.Delim:
		return writeContainer(dec, buf, v)
	case string:
		return writeString(buf, v)
	case json.Number:
		writeNumber(buf, v)
	case bool:
		buf.WriteString(strconv.FormatBool(v))
	case nil:
		buf.WriteString("null")
	default:
		return errUnexpectedToken
	}
	return nil
}

func writeContainer(dec *json.Decoder, buf *bytes.Buffer, open json.Delim) error {
	closing := byte(']')
	if open == '{' {
		closing = '}'
	}
	buf.WriteByte(byte(open))
	for i := 0; dec.More(); i++ {
		if i > 0 {
			buf.WriteByte(',')
		}
		if open == '{' {
			key, err := dec.Token()
			if err != nil {
				return err
			}
			k, ok := key.(string)
			if !ok {
				return errUnexpectedToken
			}
			if err := writeString(buf, k); err != nil {
				return err
			}
			buf.WriteByte(':')
		}
		if err := writeValue(dec, buf); err != nil {
			return err
		}
	}
	// закрывающая скобка
	if _, err := dec.Token(); err != nil {
		return err
	}
	buf.WriteByte(closing)
	return nil
}

func writeString(buf *bytes.Buffer, s string) error {
	var out bytes.Buffer
	enc := json.NewEncoder(&out)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		return err
	}
	buf.Write(bytes.TrimSuffix(out.Bytes(), []byte("\n")))
	return nil
}

// writeNumber пишет число в кратчайшей форме float64: экспонента только
// для очень больших и очень малых значений, -0 становится 0.
func writeNumber(buf *bytes.Buffer, n json.Number) {
	f, err := strconv.ParseFloat(string(n), 64)
	if err != nil || math.IsInf(f, 0) {
		buf.WriteString(n.String())
		return
	}
	if f == 0 {
		buf.WriteByte('0')
		return
	}
	abs := math.Abs(f)
	if abs >= 1e-6 && abs < 1e21 {
		buf.WriteString(strconv.FormatFloat(f, 'f', -1, 64))
		return
	}
	s := strconv.FormatFloat(f, 'e', -1, 64)
	// Go пишет e-07, нужна e-7
	if i := strings.IndexByte(s, 'e'); i >= 0 && len(s) > i+3 && s[i+2] == '0' {
		s = s[:i+2] + s[i+3:]
	}
	buf.WriteString(s)
}

// Sign возвращает подпись в формате "sha256=<hex>" для канонической формы тела.
func Sign(body []byte, secret string) (string, bool) {
	canonical, ok := Canonicalize(body)
	if !ok {
		return "", false
	}
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(canonical)
	return prefix + hex.EncodeToString(mac.Sum(nil)), true
}

// Verify сверяет подпись за константное время. Никогда не паникует:
// любой некорректный вход: false.
func Verify(body []byte, sig, secret string) bool {
	sig = strings.TrimSpace(sig)
	if sig == "" || secret == "" || !strings.HasPrefix(sig, prefix) {
		return false
	}
	expected, ok := Sign(body, secret)
	if !ok {
		return false
	}
	// hmac.Equal сам отвечает false при разной длине
	return hmac.Equal([]byte(sig), []byte(expected))
}
