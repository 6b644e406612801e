package mysql

const upsertVenueSQL = `
INSERT INTO venues
  (id, position, name, address, lat, lon, plus_code, image_url, short_description, rating,
   city, category, cuisine, atmosphere, features)
VALUES
  (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
ON DUPLICATE KEY UPDATE
  position          = VALUES(position),
  name              = VALUES(name),
  address           = VALUES(address),
  lat               = VALUES(lat),
  lon               = VALUES(lon),
  plus_code         = VALUES(plus_code),
  image_url         = VALUES(image_url),
  short_description = VALUES(short_description),
  rating            = VALUES(rating),
  city              = VALUES(city),
  category          = VALUES(category),
  cuisine           = VALUES(cuisine),
  atmosphere        = VALUES(atmosphere),
  features          = VALUES(features),
  updated_at        = CURRENT_TIMESTAMP
`

const selectVenueCols = `
SELECT
  id, name, address, lat, lon, plus_code, image_url, short_description, rating,
  city, category, cuisine, atmosphere, features
FROM venues
`

// Catalog order is dataset order.
const listVenuesSQL = selectVenueCols + `ORDER BY position, id`

const getVenueSQL = selectVenueCols + `WHERE id = ?`

// COALESCE keeps stored values for fields the client did not send.
const upsertProfileSQL = `
INSERT INTO profiles
  (user_id, username, full_name, website, avatar_url, city, city_lat, city_long)
VALUES
  (?, ?, ?, ?, ?, ?, ?, ?)
ON DUPLICATE KEY UPDATE
  username   = COALESCE(VALUES(username), profiles.username),
  full_name  = COALESCE(VALUES(full_name), profiles.full_name),
  website    = COALESCE(VALUES(website), profiles.website),
  avatar_url = COALESCE(VALUES(avatar_url), profiles.avatar_url),
  city       = COALESCE(VALUES(city), profiles.city),
  city_lat   = COALESCE(VALUES(city_lat), profiles.city_lat),
  city_long  = COALESCE(VALUES(city_long), profiles.city_long),
  updated_at = CURRENT_TIMESTAMP
`

const getProfileSQL = `
SELECT user_id, username, full_name, website, avatar_url, city, city_lat, city_long, updated_at
FROM profiles
WHERE user_id = ?
`
