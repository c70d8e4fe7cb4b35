package repositories

import "niuniq/internal/infrastructure/bd"

// Listing schemas. The keys are the field names clients filter, sort and
// select on; password never appears.
var (
	UserSchema = bd.Schema{
		Table: "users",
		Alias: "u",
		Fields: map[string]bd.Field{
			"id":              {Column: "u.id", Kind: bd.KindID},
			"email":           {Column: "u.email", Kind: bd.KindText},
			"noTelepon":       {Column: "u.no_telepon", Kind: bd.KindText},
			"role":            {Column: "u.role", Kind: bd.KindText},
			"hasCreatedStore": {Column: "u.has_created_store", Kind: bd.KindBool},
			"createdAt":       {Column: "u.created_at", Kind: bd.KindTime},
			"updatedAt":       {Column: "u.updated_at", Kind: bd.KindTime},
		},
		DefaultProjection: []string{"email", "noTelepon", "role", "hasCreatedStore", "createdAt", "updatedAt"},
	}

	StoreSchema = bd.Schema{
		Table: "stores",
		Alias: "s",
		Fields: map[string]bd.Field{
			"id":             {Column: "s.id", Kind: bd.KindID},
			"name":           {Column: "s.name", Kind: bd.KindText},
			"user":           {Column: "s.user_id", Kind: bd.KindID},
			"logo":           {Column: "s.logo", Kind: bd.KindText},
			"photo":          {Column: "s.photo", Kind: bd.KindText},
			"ecommerces":     {Column: "s.ecommerces", Kind: bd.KindTextArray},
			"ecommercesUrl":  {Column: "s.ecommerces_url", Kind: bd.KindTextArray},
			"yearProduction": {Column: "s.year_production", Kind: bd.KindInt},
			"regency":        {Column: "s.regency", Kind: bd.KindText},
			"province":       {Column: "s.province", Kind: bd.KindText},
			"createdAt":      {Column: "s.created_at", Kind: bd.KindTime},
			"updatedAt":      {Column: "s.updated_at", Kind: bd.KindTime},
		},
		DefaultProjection: []string{
			"name", "user", "logo", "photo", "ecommerces", "ecommercesUrl",
			"yearProduction", "regency", "province", "createdAt", "updatedAt",
		},
	}

	ProductSchema = bd.Schema{
		Table: "products",
		Alias: "p",
		Joins: []string{"stores st ON st.id = p.store_id"},
		Fields: map[string]bd.Field{
			"id":             {Column: "p.id", Kind: bd.KindID},
			"productId":      {Column: "p.product_id", Kind: bd.KindText},
			"name":           {Column: "p.name", Kind: bd.KindText},
			"rawMaterials":   {Column: "p.raw_materials", Kind: bd.KindText},
			"description":    {Column: "p.description", Kind: bd.KindText},
			"productStorage": {Column: "p.product_storage", Kind: bd.KindText},
			"category":       {Column: "p.category", Kind: bd.KindText},
			"price":          {Column: "p.price", Kind: bd.KindFloat},
			"photos":         {Column: "p.photos", Kind: bd.KindTextArray},
			"video":          {Column: "p.video", Kind: bd.KindText},
			"isVerification": {Column: "p.is_verification", Kind: bd.KindBool},
			"qrCode":         {Column: "p.qr_code", Kind: bd.KindText},
			"store":          {Column: "p.store_id", Kind: bd.KindID},
			"storeName":      {Column: "st.name", Kind: bd.KindText},
			"user":           {Column: "p.user_id", Kind: bd.KindID},
			"createdAt":      {Column: "p.created_at", Kind: bd.KindTime},
			"updatedAt":      {Column: "p.updated_at", Kind: bd.KindTime},
		},
		DefaultProjection: []string{
			"productId", "name", "rawMaterials", "description", "productStorage", "category", "price",
			"photos", "video", "isVerification", "qrCode", "store", "storeName", "user", "createdAt", "updatedAt",
		},
	}
)
