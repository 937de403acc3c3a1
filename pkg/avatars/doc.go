// Package avatars generates default identicon avatars for organizations.
//
// The identicon is deterministic: the same name always yields the same image.
// An MD5 digest of the name picks the block color and the on/off pattern of a
// horizontally mirrored grid, so avatars are visually distinct without any
// stored state.
package avatars
