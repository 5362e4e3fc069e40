// Package jwt encodes and verifies HMAC-signed JSON Web Tokens.
//
// Encode and Decode are the low-level codec: claims are a ClaimSet of typed
// Values, serialized with sorted keys under the header {"alg":...,"typ":"JWT"}.
// Decode checks the signature first and then runs the registered claim checks
// configured through ParserOption values. DecodeUnverified reads a token
// without any key and must never be used for authorization.
//
// Processor wraps the codec for services: it owns the secret, stamps iss, aud,
// iat, exp and jti, separates access tokens from refresh tokens, and is safe
// for concurrent use until Close.
package jwt
