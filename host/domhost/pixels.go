// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package domhost

// unpremultiply converts premultiplied RGBA pixels in src to straight alpha
// in dst. len(dst) must be at least len(src).
func unpremultiply(dst, src []byte) {
	for i := 0; i+3 < len(src); i += 4 {
		a := uint32(src[i+3])
		switch a {
		case 0:
			dst[i], dst[i+1], dst[i+2], dst[i+3] = 0, 0, 0, 0
		case 0xFF:
			copy(dst[i:i+4], src[i:i+4])
		default:
			dst[i+0] = byte(min(uint32(src[i+0])*0xFF/a, 0xFF))
			dst[i+1] = byte(min(uint32(src[i+1])*0xFF/a, 0xFF))
			dst[i+2] = byte(min(uint32(src[i+2])*0xFF/a, 0xFF))
			dst[i+3] = byte(a)
		}
	}
}
